// Package mcp provides a Model Context Protocol server for the Tilt Maze Game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// The server is a thin proxy: every tool call is translated into a REST
// request against the game's HTTP API, and responses are formatted as
// text an agent can read, including an ASCII rendering of the maze with
// the ball ('o') and goal ('G') overlaid.
//
// MCP Tools:
//
//   - create_session: Create new game session with config selection
//   - list_sessions / get_session / delete_session: Session management
//   - start_game: Start or retry a run in manual or realtime mode
//   - steer: Set the tilt vector (with a stated intent)
//   - advance: Step a manual run by a number of frames
//   - game_state: Current phase, timer, ball, and maze rendering
//   - list_configs: List available maze configurations
//   - game_instructions: Full gameplay guide for agents
//
// Agents should prefer manual mode: steer then advance gives a
// deterministic observe-act loop, while realtime mode keeps moving
// between tool calls.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
