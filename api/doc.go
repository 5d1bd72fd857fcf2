// Package api provides HTTP REST API handlers for the Tilt Maze Game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Configuration listing and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id)
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session and stop its loop
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Full game state with maze layout
//   - POST /api/sessions/{id}/start - Start or retry a run
//     body: {"realtime": true|false}, default true
//   - POST /api/sessions/{id}/input - Set the tilt vector
//     body: {"ix": -1..1, "iy": -1..1}
//   - POST /api/sessions/{id}/advance - Step a manual run
//     body: {"frames": n}; 409 while a realtime loop is active
//   - GET /api/sessions/{id}/render - Render primitives for the frame
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a new configuration
//
// Health:
//   - GET /api/health - Liveness probe
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{"error": "error message"}
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
