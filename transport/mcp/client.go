package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/rover-arena/game/engine"
	"github.com/wricardo/rover-arena/game/service"
)

// Version is reported to MCP clients during initialization
var Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Rover Arena",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Rover Arena - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rovers are deployed onto a rectangular plateau and driven with L (turn left),
R (turn right) and M (move one cell forward). A session keeps every rover it
has deployed, and later rovers must drive around earlier ones.

AVAILABLE TOOLS:
- create_session: Create a new arena session
- list_sessions: List all active sessions
- get_session: Get a session with its rovers
- process_instructions: Deploy an instruction batch into a session
- evaluate_instructions: Run a batch on a throwaway arena
- run_scenario: Deploy a stored scenario into a session
- rover_positions: Current position and heading of every rover in a session
- list_scenarios: List stored scenarios
- protocol_help: Full description of the instruction format`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func instructionsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Instruction text: a \"maxX maxY\" line, then for each rover an \"x y N|E|S|W\" line and a line of L/R/M, separated by \\n",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new arena session with an empty plateau",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active arena sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including every rover it has deployed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Arena operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "process_instructions",
		Description: "Deploy an instruction batch into a session. Rovers run one after another and stay in the session afterwards.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id":   sessionIDProperty(),
				"instructions": instructionsProperty(),
			},
			Required: []string{"session_id", "instructions"},
		},
	}, c.handleProcessInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "evaluate_instructions",
		Description: "Run an instruction batch on a fresh arena without touching any session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"instructions": instructionsProperty(),
			},
			Required: []string{"instructions"},
		},
	}, c.handleEvaluate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_scenario",
		Description: "Deploy a stored scenario into a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"scenario": map[string]interface{}{
					"type":        "string",
					"description": "Scenario ID as returned by list_scenarios",
				},
			},
			Required: []string{"session_id", "scenario"},
		},
	}, c.handleRunScenario)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_positions",
		Description: "Current position and heading of every rover in a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRoverPositions)

	// Scenarios and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List stored scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "protocol_help",
		Description: "Describe the instruction format and movement rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleProtocolHelp)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func stringArg(request mcp.CallToolRequest, key string) string {
	args, _ := request.Params.Arguments.(map[string]interface{})
	value, _ := args[key].(string)
	return value
}

func sessionPath(sessionID string, rest ...string) string {
	parts := append([]string{"/api/sessions", url.PathEscape(sessionID)}, rest...)
	return strings.Join(parts, "/")
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nThe arena is empty.\n", session.ID)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Rovers: %d, Batches: %d, Created: %s)\n",
			s.ID, s.RoverCount, s.Batches, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleProcessInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	instructions := stringArg(request, "instructions")
	if sessionID == "" || instructions == "" {
		return mcp.NewToolResultError("session_id and instructions are required"), nil
	}

	var result service.ProcessResult
	body := map[string]string{"instructions": instructions}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "instructions"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProcessResult(&result)), nil
}

func (c *Client) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := stringArg(request, "instructions")
	if instructions == "" {
		return mcp.NewToolResultError("instructions are required"), nil
	}

	var result service.ProcessResult
	body := map[string]string{"instructions": instructions}
	if err := c.apiCall(ctx, "POST", "/api/evaluate", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProcessResult(&result)), nil
}

func (c *Client) handleRunScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	scenarioID := stringArg(request, "scenario")
	if sessionID == "" || scenarioID == "" {
		return mcp.NewToolResultError("session_id and scenario are required"), nil
	}

	var result service.ProcessResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "scenarios", url.PathEscape(scenarioID)), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProcessResult(&result)), nil
}

func (c *Client) handleRoverPositions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var response struct {
		Rovers []engine.RoverState `json:"rovers"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "rovers"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRovers(response.Rovers)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(scenarios) == 0 {
		return mcp.NewToolResultText("No scenarios available.\n"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Scenarios (%d):\n\n", len(scenarios))
	for _, s := range scenarios {
		fmt.Fprintf(&b, "- %s: %s (%d rovers, plateau %s)\n", s.ID, s.Name, s.Rovers, s.Platform)
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s\n", s.Description)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleProtocolHelp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(protocolHelp), nil
}

const protocolHelp = `Rover Arena - Instruction Format

INPUT:
  Line 1: "maxX maxY", the upper-right corner of the plateau. The lower-left
          corner is always 0 0.
  Then, for each rover, two lines:
    "x y H"  start position and heading, H is one of N, E, S, W
    "LRM..." one or more moves

  Lines are separated by a single newline and one trailing newline is
  allowed. Tokens are separated by exactly one space.

MOVES:
  L  turn 90 degrees left, staying in place
  R  turn 90 degrees right, staying in place
  M  move one cell forward. N is +y, E is +x, S is -y, W is -x.

RULES:
  - Rovers run one at a time, in the order given.
  - A move off the plateau or onto another rover's cell is skipped and the
    rover carries on with its next instruction.
  - Every rover stays where it finished, including rovers from earlier
    batches sent to the same session.
  - A batch with any malformed line is rejected as a whole and deploys
    nothing.
  - A rover starting beyond maxX/maxY stops the batch with an error. Rovers
    listed before it in the same batch stay deployed.

OUTPUT:
  One "x y H" line per rover in the arena, in deployment order.

EXAMPLE:
  5 5
  1 2 N
  LMLMLMLMM
  3 3 E
  MMRMMRMRRM

  produces

  1 3 N
  5 1 E
`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nCreated: %s\nBatches: %d\n",
		session.ID, session.CreatedAt.Format("2006-01-02 15:04:05"), session.Batches)
	if len(session.Scenarios) > 0 {
		fmt.Fprintf(&b, "Scenarios: %s\n", strings.Join(session.Scenarios, ", "))
	}
	b.WriteString("\n")
	b.WriteString(formatRovers(session.Rovers))
	return b.String()
}

func formatRovers(rovers []engine.RoverState) string {
	if len(rovers) == 0 {
		return "No rovers deployed.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rovers (%d):\n", len(rovers))
	for _, r := range rovers {
		fmt.Fprintf(&b, "  #%d  %s  (facing %s)\n", r.Index, r, r.Heading.Name())
	}
	return b.String()
}

func formatProcessResult(result *service.ProcessResult) string {
	var b strings.Builder

	if result.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", result.Scenario)
	}
	fmt.Fprintf(&b, "Deployed %d rover(s), %d in arena.\n\n", result.RoversAdded, len(result.Rovers))

	b.WriteString("Report:\n")
	b.WriteString(result.Report)
	b.WriteString("\n")

	if len(result.Rejections) > 0 {
		fmt.Fprintf(&b, "\nSkipped moves (%d):\n", len(result.Rejections))
		for _, r := range result.Rejections {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	return b.String()
}
