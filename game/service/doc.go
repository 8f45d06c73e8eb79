// Package service provides the business logic layer for the rover arena.
//
// The service package implements:
//   - Multi-session arena management
//   - Instruction batch processing with per-batch summaries
//   - Stored scenario lookup and execution
//   - Stateless evaluation on a throwaway arena
//
// Core Interfaces:
//
// ArenaService is the main service interface used by every transport.
// SessionManager stores sessions, each of which owns one engine.Arena.
// ScenarioManager loads named instruction scripts from disk.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// engine. Arenas are not safe for concurrent use, so the service serializes
// every call that deploys rovers. Rovers deployed into a session stay there
// for the lifetime of the session, and later batches must steer around them.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr := scenario.NewManager("scenarios")
//	arenaService := service.NewArenaService(sessionMgr, scenarioMgr)
//
//	info, err := arenaService.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := arenaService.ProcessInstructions(ctx, info.ID, "5 5\n1 2 N\nLMLMLMLMM")
//	fmt.Println(result.Report) // 1 3 N
package service
