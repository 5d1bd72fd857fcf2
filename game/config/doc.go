// Package config provides configuration management for the Tilt Maze Game.
//
// The config package handles:
//   - Loading maze configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration selection
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Maze configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Grid geometry (cols, rows, cell size) — dimensions must be odd
//   - Physics tuning (acceleration, friction, restitution, ball radius)
//   - Simulation rate (tick_hz) and an optional fixed maze seed
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Caching:
//
// Loaded configurations are cached in memory. RefreshCache clears the
// cache so edits to config files on disk are picked up without a
// restart. If the directory holds no valid configuration named
// "classic", the first valid file becomes the default; with no valid
// files at all, the built-in default tuning is used.
package config
