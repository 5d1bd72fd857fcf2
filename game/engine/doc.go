// Package engine provides the core game logic for the Tilt Maze game.
//
// The engine package implements the session controller driving a single
// play session:
//   - The idle → playing → finished state machine, with retry back to playing
//   - The per-frame update cycle: elapsed time, input-driven acceleration,
//     integration, collision resolution, goal check, render primitives
//   - Elapsed-time tracking with a two-decimal final result
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the wire snapshot exposed over
// the API, Frame is the lightweight per-tick broadcast, and GameConfig
// defines the grid geometry and physics tuning loaded from JSON files.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Start(time.Now())
//	gameEngine.SetInput(1, 0)
//	frame := gameEngine.Tick(time.Now())
//
// Game Rules:
//
// A ball rolls through a procedurally generated perfect maze under
// tilt/keyboard acceleration with per-frame friction and damped wall
// bounces. The run finishes when the ball center comes within half a cell
// of the goal cell center; the elapsed time is the player's result.
//
// The engine itself is scheduler-agnostic: the service layer ticks it from
// a real-time loop at the configured rate, or manually for headless play.
package engine
