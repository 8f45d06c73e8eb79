// Package mcp exposes the rover arena to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call turns into a request against
// the REST API, so an MCP session and a browser watching the same arena
// session over WebSocket see the same rovers.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - process_instructions: deploy a batch into a session
//   - evaluate_instructions: run a batch on a throwaway arena
//   - run_scenario: deploy a stored scenario into a session
//   - rover_positions: current rovers of a session
//   - list_scenarios: stored scenarios
//   - protocol_help: the instruction format and movement rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
