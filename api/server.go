package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/rover-arena/game/engine"
	"github.com/wricardo/rover-arena/game/scenario"
	"github.com/wricardo/rover-arena/game/service"
	"github.com/wricardo/rover-arena/game/session"
	"github.com/wricardo/rover-arena/transport/websocket"
)

// maxInstructionBytes caps request bodies carrying instruction text
const maxInstructionBytes = 1 << 20

var errEmptyInstructions = errors.New("instructions are required")

// Server represents the REST API server
type Server struct {
	service service.ArenaService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(arenaService service.ArenaService, hub *websocket.Hub) *Server {
	s := &Server{
		service: arenaService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Arena operations
	api.HandleFunc("/sessions/{id}/instructions", s.handleProcessInstructions).Methods("POST")
	api.HandleFunc("/sessions/{id}/rovers", s.handleGetRovers).Methods("GET")
	api.HandleFunc("/sessions/{id}/scenarios/{scenario}", s.handleRunScenario).Methods("POST")
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods("POST")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios/{id}", s.handleGetScenario).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInputFormat),
		errors.Is(err, scenario.ErrInvalidScenario),
		errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, errEmptyInstructions):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, scenario.ErrScenarioNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// readInstructions accepts either {"instructions": "..."} JSON or the raw
// protocol text as the request body
func readInstructions(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInstructionBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxInstructionBytes {
		return "", fmt.Errorf("%w: request body too large", engine.ErrInvalidInputFormat)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Instructions string `json:"instructions"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return "", fmt.Errorf("%w: invalid request body", engine.ErrInvalidInputFormat)
		}
		body = []byte(req.Instructions)
	}

	if len(body) == 0 {
		return "", errEmptyInstructions
	}
	return string(body), nil
}

// wantsText reports whether the client asked for the plain protocol report
func wantsText(r *http.Request) bool {
	if r.URL.Query().Get("format") == "text" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/plain") && !strings.Contains(accept, "application/json")
}

func respondResult(w http.ResponseWriter, r *http.Request, result *service.ProcessResult) {
	if wantsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, result.Report)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) broadcast(result *service.ProcessResult) {
	if s.hub == nil || result.SessionID == "" {
		return
	}
	s.hub.BroadcastToSession(result.SessionID, result.Rovers)
	if len(result.Rejections) > 0 {
		s.hub.BroadcastEvent(result.SessionID, service.EventMoveRejected, result.Rejections)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.CreateSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	sess, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Arena Handlers

func (s *Server) handleProcessInstructions(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	text, err := readInstructions(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.service.ProcessInstructions(r.Context(), sessionID, text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(result)

	log.Printf("[DEPLOY] session=%s added=%d total=%d rejected=%d",
		sessionID, result.RoversAdded, len(result.Rovers), len(result.Rejections))

	respondResult(w, r, result)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	scenarioID := vars["scenario"]

	result, err := s.service.RunScenario(r.Context(), sessionID, scenarioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(result)

	log.Printf("[SCENARIO] session=%s scenario=%s added=%d total=%d rejected=%d",
		sessionID, scenarioID, result.RoversAdded, len(result.Rovers), len(result.Rejections))

	respondResult(w, r, result)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	text, err := readInstructions(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.service.Evaluate(r.Context(), text)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondResult(w, r, result)
}

func (s *Server) handleGetRovers(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	rovers, err := s.service.GetRovers(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	lines := make([]string, len(rovers))
	for i, rover := range rovers {
		lines[i] = rover.String()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"count":      len(rovers),
		"rovers":     rovers,
		"report":     strings.Join(lines, "\n"),
	})
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	scenarioID := mux.Vars(r)["id"]

	sc, err := s.service.LoadScenario(r.Context(), scenarioID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sc)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	if s.hub == nil {
		http.Error(w, "live updates are disabled", http.StatusServiceUnavailable)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
