package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/rover-arena/game/engine"
)

// arenaServiceImpl implements ArenaService
type arenaServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	mu        sync.RWMutex
}

// NewArenaService creates a new arena service
func NewArenaService(sessions SessionManager, scenarios ScenarioManager) ArenaService {
	return &arenaServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
	}
}

// CreateSession creates a new session with an empty arena
func (s *arenaServiceImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information. It takes the write lock because
// touching the session updates its last access time.
func (s *arenaServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *arenaServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// DeleteSession removes a session
func (s *arenaServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// ProcessInstructions runs an instruction batch against the session's arena
func (s *arenaServiceImpl) ProcessInstructions(ctx context.Context, sessionID, text string) (*ProcessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result, err := process(sess.Arena, text)
	if err != nil {
		return nil, err
	}

	sess.Batches++
	result.SessionID = sess.ID
	return result, nil
}

// RunScenario loads a stored scenario and runs it against the session's arena
func (s *arenaServiceImpl) RunScenario(ctx context.Context, sessionID, scenarioID string) (*ProcessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	scenario, err := s.loadScenario(scenarioID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result, err := process(sess.Arena, scenario.Instructions)
	if err != nil {
		return nil, fmt.Errorf("scenario '%s': %w", scenarioID, err)
	}

	sess.Batches++
	sess.Scenarios = append(sess.Scenarios, scenarioID)
	result.SessionID = sess.ID
	result.Scenario = scenarioID
	return result, nil
}

// Evaluate runs an instruction batch on a fresh arena that is thrown away afterwards
func (s *arenaServiceImpl) Evaluate(ctx context.Context, text string) (*ProcessResult, error) {
	return process(engine.NewArena(), text)
}

// GetRovers returns the current rovers of a session
func (s *arenaServiceImpl) GetRovers(ctx context.Context, sessionID string) ([]engine.RoverState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Arena.Rovers(), nil
}

// ListScenarios returns all available scenarios
func (s *arenaServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	if s.scenarios == nil {
		return []*ScenarioInfo{}, nil
	}
	return s.scenarios.List()
}

// LoadScenario loads a specific scenario
func (s *arenaServiceImpl) LoadScenario(ctx context.Context, scenarioID string) (*Scenario, error) {
	return s.loadScenario(scenarioID)
}

func (s *arenaServiceImpl) loadScenario(scenarioID string) (*Scenario, error) {
	if s.scenarios == nil {
		return nil, fmt.Errorf("no scenarios configured")
	}

	scenario, err := s.scenarios.Load(scenarioID)
	if err == nil {
		return scenario, nil
	}

	// Point the caller at what does exist
	if available, listErr := s.scenarios.List(); listErr == nil {
		ids := make([]string, 0, len(available))
		for _, info := range available {
			if info.ID == scenarioID {
				return nil, fmt.Errorf("failed to load scenario '%s': %w", scenarioID, err)
			}
			ids = append(ids, info.ID)
		}
		return nil, fmt.Errorf("scenario '%s' not found, available scenarios: %v: %w", scenarioID, ids, err)
	}

	return nil, fmt.Errorf("failed to load scenario '%s': %w", scenarioID, err)
}

// process parses text, deploys it into arena and summarizes what happened
func process(arena *engine.Arena, text string) (*ProcessResult, error) {
	batch, err := engine.Parse(text)
	if err != nil {
		return nil, err
	}

	before := arena.Len()
	rejections, err := arena.Deploy(batch)
	if err != nil {
		return nil, err
	}
	if rejections == nil {
		rejections = []engine.MoveRejection{}
	}

	rovers := arena.Rovers()
	now := time.Now()

	events := make([]ArenaEvent, 0, len(rejections)+len(rovers)-before)
	for _, r := range rejections {
		events = append(events, ArenaEvent{
			Type:      EventMoveRejected,
			Message:   r.String(),
			Rover:     r.Rover,
			Position:  r.From,
			Timestamp: now,
		})
	}
	for _, rover := range rovers[before:] {
		events = append(events, ArenaEvent{
			Type:      EventDeployed,
			Message:   fmt.Sprintf("rover %d finished at %s", rover.Index, rover),
			Rover:     rover.Index,
			Position:  rover.Position,
			Timestamp: now,
		})
	}

	return &ProcessResult{
		Report:      arena.Report(),
		Rovers:      rovers,
		RoversAdded: len(rovers) - before,
		Rejections:  rejections,
		Events:      events,
	}, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	rovers := sess.Arena.Rovers()
	return &SessionInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Batches:        sess.Batches,
		Scenarios:      append([]string(nil), sess.Scenarios...),
		RoverCount:     len(rovers),
		Rovers:         rovers,
		Report:         sess.Arena.Report(),
	}
}
