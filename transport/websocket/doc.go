// Package websocket pushes live planner reports to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client watches one session; after every
// change to that session's inputs the API broadcasts the recomputed report
// to all of its clients.
//
// Message Protocol:
//
// Outgoing messages are JSON objects, one per text frame:
//
//	{"session_id": "ab12", "event": "report_update", "report": {...}}
//	{"session_id": "ab12", "event": "session_deleted"}
//
// Incoming messages are read and discarded.
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
