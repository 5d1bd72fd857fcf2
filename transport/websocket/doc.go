// Package websocket provides WebSocket transport for the Tilt Maze Game.
//
// The websocket package implements:
//   - Real-time frame streaming to connected clients
//   - Session-aware WebSocket connections
//   - Input and start commands over the socket
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by dedicated
// read and write goroutines. The hub implements service.FrameBroadcaster,
// so the realtime game loop pushes frames straight into it.
//
// Message Protocol:
//
// Messages are JSON-encoded with an event discriminator:
//   - Outgoing "state": full game state (sent on connect and on start)
//   - Outgoing "frame": per-tick ball position and timer
//   - Outgoing "started": confirms a start command
//   - Outgoing "error": carries a detail string in data
//   - Incoming {"type":"input","ix":1,"iy":0} sets the tilt vector
//   - Incoming {"type":"start","realtime":true} starts or retries a run
//
// Backpressure:
//
// The broadcast channel and each client's send channel are bounded.
// Frames for slow consumers are dropped rather than stalling the game
// loop; a client whose buffer stays full is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run()
//	gameService.SetBroadcaster(hub)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
