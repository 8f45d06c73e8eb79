package service

import (
	"context"
	"time"

	"github.com/wricardo/rover-arena/game/engine"
)

// ArenaService defines all rover arena operations
type ArenaService interface {
	// Session Management
	CreateSession(ctx context.Context) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Instruction Processing
	ProcessInstructions(ctx context.Context, sessionID, text string) (*ProcessResult, error)
	RunScenario(ctx context.Context, sessionID, scenarioID string) (*ProcessResult, error)
	Evaluate(ctx context.Context, text string) (*ProcessResult, error)

	// Arena State
	GetRovers(ctx context.Context, sessionID string) ([]engine.RoverState, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, scenarioID string) (*Scenario, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ScenarioManager loads stored instruction scripts
type ScenarioManager interface {
	Load(id string) (*Scenario, error)
	List() ([]*ScenarioInfo, error)
}

// Session is one arena and the bookkeeping around it
type Session struct {
	ID             string
	Arena          *engine.Arena
	Batches        int
	Scenarios      []string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
