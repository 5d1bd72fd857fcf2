// Package service provides the business logic layer for the Tilt Maze Game.
//
// The service package implements:
//   - Multi-session game management
//   - Realtime and manual simulation scheduling
//   - Input routing and frame broadcasting
//   - Configuration loading and listing
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages maze configuration loading.
// FrameBroadcaster is implemented by the websocket hub to fan realtime
// frames out to connected clients.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing session isolation and scheduling. Each
// session maintains its own engine instance with independent state.
//
// Scheduling Modes:
//
// A run is driven in one of two ways:
//   - Realtime: StartGame(ctx, id, true) spawns a ticker goroutine that
//     advances the engine at the config's tick rate and broadcasts frames.
//   - Manual: StartGame(ctx, id, false) leaves the clock to the caller;
//     Advance(ctx, id, frames) steps the simulation by fixed timesteps.
//
// Advance is rejected with ErrRealtimeActive while a realtime loop is
// running, so the two schedulers never fight over one engine. Restarting
// a session always stops any previous loop first.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//	gameService.SetBroadcaster(hub)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.StartGame(ctx, info.ID, false)
//	gameService.SetInput(ctx, info.ID, 1, 0)
//	advance, err := gameService.Advance(ctx, info.ID, 60)
package service
