// Package session provides in-memory session management for the rover arena.
//
// Each session owns one engine.Arena. Rovers deployed through a session stay
// in its arena until the session is deleted or expires, so consecutive
// instruction batches sent to the same session see each other's rovers.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Callers may also pick
// their own ID. Lookups are case-insensitive.
//
// Concurrency:
//
// The Manager is safe for concurrent use. It does not serialize access to the
// arenas it hands out; that is the service layer's job.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := sess.Arena.ProcessInstructions("5 5\n1 2 N\nLMLMLMLMM")
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions that have not been touched within a
// given age. The server runs it on a timer.
package session
