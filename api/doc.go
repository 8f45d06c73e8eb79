// Package api provides the HTTP REST API for the rover arena.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session with an empty arena
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session, its rovers and report
//   - DELETE /api/sessions/{id} - Delete a session
//
// Arena:
//   - POST /api/sessions/{id}/instructions - Deploy an instruction batch into the session
//   - GET /api/sessions/{id}/rovers - Current rovers of a session
//   - POST /api/sessions/{id}/scenarios/{scenario} - Deploy a stored scenario into the session
//   - POST /api/evaluate - Run a batch on a throwaway arena
//
// Scenarios:
//   - GET /api/scenarios - List stored scenarios
//   - GET /api/scenarios/{id} - Get one scenario with its instruction text
//
// Other:
//   - GET /api/health - Liveness probe
//   - GET /ws?session={id} - WebSocket feed of rover updates for a session
//
// Instruction bodies are either the raw protocol text or JSON:
//
//	{"instructions": "5 5\n1 2 N\nLMLMLMLMM\n3 3 E\nMMRMMRMRRM"}
//
// Batch responses are JSON by default. Send Accept: text/plain or
// ?format=text to get only the report lines:
//
//	1 3 N
//	5 1 E
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Malformed instructions and
// broken scenarios map to 400, unknown sessions and scenarios to 404, and
// anything else to 500.
package api
