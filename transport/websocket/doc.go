// Package websocket pushes live rover updates to browser clients.
//
// A central Hub tracks clients per arena session. Clients connect with
// ?session=<id>; every time rovers are deployed into that session the API
// calls BroadcastToSession and each connected client receives:
//
//	{"session_id":"a1b2","event":"rovers_update","rovers":[...],"report":"1 3 N\n5 1 E"}
//
// Each client gets a reader goroutine that only services pings and a writer
// goroutine that drains its send buffer. A client whose buffer fills up is
// dropped rather than allowed to stall the broadcast.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
