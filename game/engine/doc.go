// Package engine provides the core logic of the rover arena.
//
// The engine package implements:
//   - The instruction protocol parser (platform size + command blocks)
//   - The rover motion and turning state machine
//   - Boundary and collision checks against every rover already deployed
//   - The Arena, which deploys rovers in order and reports their final positions
//
// Core Types:
//
// Direction is one of the four compass headings in the fixed cyclic order
// North, East, South, West. Platform is the inclusive rectangle rovers drive on.
// RoverCommand is one parsed command block. Rover holds one rover's mutable
// state, and Arena owns every rover deployed so far.
//
// Usage:
//
//	arena := engine.NewArena()
//	report, err := arena.ProcessInstructions("5 5\n1 2 N\nLMLMLMLMM\n3 3 E\nMMRMMRMRRM")
//	if err != nil {
//		log.Fatal(err) // errors.Is(err, engine.ErrInvalidInputFormat)
//	}
//	fmt.Println(report) // "1 3 N\n5 1 E"
//
// Rules:
//
// Rovers run one at a time, in input order, and each finishes its whole
// instruction string before the next one is created. A move that would leave
// the platform or enter a cell occupied by an earlier rover is dropped, the
// rover stays put, and the rejection is reported through the Arena's
// Diagnostics hook. Rejected moves never fail a batch; only malformed input
// and rovers starting outside the platform do.
//
// An Arena is append-only and not safe for concurrent use. Later rovers
// observe the final positions of earlier ones, so processing order matters.
package engine
