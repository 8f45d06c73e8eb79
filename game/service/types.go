package service

import (
	"time"

	"github.com/wricardo/rover-arena/game/engine"
)

// Event types reported in ProcessResult.Events
const (
	EventDeployed     = "deployed"
	EventMoveRejected = "move_rejected"
)

// SessionInfo provides information about an arena session
type SessionInfo struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Batches        int                 `json:"batches"`
	Scenarios      []string            `json:"scenarios,omitempty"`
	RoverCount     int                 `json:"rover_count"`
	Rovers         []engine.RoverState `json:"rovers"`
	Report         string              `json:"report"`
}

// ProcessResult is the outcome of running one instruction batch
type ProcessResult struct {
	SessionID   string                 `json:"session_id,omitempty"`
	Scenario    string                 `json:"scenario,omitempty"`
	Report      string                 `json:"report"`
	Rovers      []engine.RoverState    `json:"rovers"`
	RoversAdded int                    `json:"rovers_added"`
	Rejections  []engine.MoveRejection `json:"rejections"`
	Events      []ArenaEvent           `json:"events"`
}

// ArenaEvent is a notable thing that happened while a batch ran
type ArenaEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Rover     int             `json:"rover"`
	Position  engine.Position `json:"position"`
	Timestamp time.Time       `json:"timestamp"`
}

// Scenario is a named instruction script kept on disk
type Scenario struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Instructions string `json:"instructions" yaml:"instructions"`
}

// ScenarioInfo provides summary information about a scenario file
type ScenarioInfo struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Platform    engine.Platform `json:"platform"`
	Rovers      int             `json:"rovers"`
}
