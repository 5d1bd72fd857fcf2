// Package session provides session management for the Tilt Maze Game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps its own engine instance plus metadata like creation
// time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are generated
// from cryptographic randomness and matched case-insensitively.
//
// Storage:
//
// Sessions live in memory only. A maze run lasts seconds and final times
// are not persisted, so nothing is worth keeping across restarts. Stale
// sessions are pruned by CleanupExpiredSessions, typically driven by an
// hourly ticker in the server binary.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
//	// Remove sessions idle for more than a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
