package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/rover-arena/api"
	"github.com/wricardo/rover-arena/transport/mcp"
)

const testScenario = `name: Canonical
description: The two rover example
instructions: |
  5 5
  1 2 N
  LMLMLMLMM
  3 3 E
  MMRMMRMRRM
`

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Rover Arena Server" {
		t.Errorf("Expected app name Rover Arena Server, got %s", AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *scenarioDir == "" {
		t.Error("Scenario directory should have a default value")
	}
}

func TestGetScenarioDirDefault(t *testing.T) {
	t.Setenv("SCENARIO_DIR", "")
	if got := getScenarioDirDefault(); got != "scenarios" {
		t.Errorf("Expected scenarios, got %s", got)
	}

	t.Setenv("SCENARIO_DIR", "/srv/missions")
	if got := getScenarioDirDefault(); got != "/srv/missions" {
		t.Errorf("Expected /srv/missions, got %s", got)
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "canonical.yaml"), []byte(testScenario), 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}

	arenaService, sessionManager := initializeServices(dir)
	if arenaService == nil || sessionManager == nil {
		t.Fatal("Expected services to be initialized")
	}

	ctx := context.Background()

	scenarios, err := arenaService.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("Failed to list scenarios: %v", err)
	}
	if len(scenarios) != 1 || scenarios[0].ID != "canonical" {
		t.Fatalf("Expected the canonical scenario, got %+v", scenarios)
	}

	session, err := arenaService.CreateSession(ctx)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	result, err := arenaService.RunScenario(ctx, session.ID, "canonical")
	if err != nil {
		t.Fatalf("Failed to run scenario: %v", err)
	}
	if result.Report != "1 3 N\n5 1 E" {
		t.Errorf("Expected canonical report, got %q", result.Report)
	}
	if sessionManager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sessionManager.Count())
	}
}

func TestInitializeServices_MissingScenarioDir(t *testing.T) {
	arenaService, _ := initializeServices(filepath.Join(t.TempDir(), "missing"))
	if arenaService == nil {
		t.Fatal("Expected arena service without scenarios")
	}

	scenarios, err := arenaService.ListScenarios(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("Expected no scenarios, got %d", len(scenarios))
	}

	// instructions still work without a scenario directory
	result, err := arenaService.Evaluate(context.Background(), "5 5\n1 2 N\nLMLMLMLMM")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Report != "1 3 N" {
		t.Errorf("Expected \"1 3 N\", got %q", result.Report)
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	arenaService, sessionManager := initializeServices(t.TempDir())
	if _, err := arenaService.CreateSession(context.Background()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	go sessionCleanupRoutine(sessionManager, 5*time.Millisecond, time.Nanosecond)

	deadline := time.Now().Add(2 * time.Second)
	for sessionManager.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected expired session to be cleaned up")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewRouter(t *testing.T) {
	arenaService, _ := initializeServices(t.TempDir())
	router := newRouter(api.NewServer(arenaService, nil), mcp.NewClient("http://localhost:0"))

	t.Run("api mounted at root", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/mcp", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Code)
		}
	})

	t.Run("mcp initialize", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
		req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Rover Arena") {
			t.Errorf("Expected server name in response, got %s", w.Body.String())
		}
	})
}

func TestNgrokSettings(t *testing.T) {
	originalEnabled, originalAuth := *ngrokEnabled, *ngrokAuth
	defer func() {
		*ngrokEnabled = originalEnabled
		*ngrokAuth = originalAuth
	}()

	*ngrokEnabled = false
	t.Setenv("NGROK_ENABLED", "")
	if ngrokShouldRun() {
		t.Error("Expected ngrok to be disabled by default")
	}
	t.Setenv("NGROK_ENABLED", "1")
	if !ngrokShouldRun() {
		t.Error("Expected NGROK_ENABLED=1 to enable ngrok")
	}

	*ngrokAuth = ""
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore")
	if got := ngrokAuthToken(); got != "underscore" {
		t.Errorf("Expected NGROK_AUTH_TOKEN fallback, got %q", got)
	}
	t.Setenv("NGROK_AUTHTOKEN", "env")
	if got := ngrokAuthToken(); got != "env" {
		t.Errorf("Expected NGROK_AUTHTOKEN, got %q", got)
	}
	*ngrokAuth = "flag"
	if got := ngrokAuthToken(); got != "flag" {
		t.Errorf("Expected flag to win, got %q", got)
	}
}
