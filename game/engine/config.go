package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tiltmaze/tilt-maze-game/game/maze"
)

// Tuning bounds for configuration validation
const (
	MinCellSize = 4.0
	MaxCellSize = 200.0
	MaxTickHz   = 240
)

// GameConfig describes one playable maze setup: grid geometry plus the
// physics tuning constants. Values are loaded from JSON config files.
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	CellSize float64 `json:"cell_size"`

	Acceleration    float64 `json:"acceleration"`
	Friction        float64 `json:"friction"`
	Restitution     float64 `json:"restitution"`
	BallRadiusRatio float64 `json:"ball_radius_ratio"`

	TickHz int `json:"tick_hz"`

	// Seed fixes the maze RNG; 0 means seed from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// ValidateGameConfig validates a game configuration for correctness and
// playability. Geometry violations fail fast instead of being auto-corrected:
// silently shrinking an even grid would break the odd-lattice carving
// invariant.
func ValidateGameConfig(config *GameConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Cols < maze.MinGridSize || config.Cols > maze.MaxGridSize || config.Cols%2 == 0 {
		return fmt.Errorf("config validation: cols must be odd and between %d and %d, got %d",
			maze.MinGridSize, maze.MaxGridSize, config.Cols)
	}
	if config.Rows < maze.MinGridSize || config.Rows > maze.MaxGridSize || config.Rows%2 == 0 {
		return fmt.Errorf("config validation: rows must be odd and between %d and %d, got %d",
			maze.MinGridSize, maze.MaxGridSize, config.Rows)
	}

	if config.CellSize < MinCellSize || config.CellSize > MaxCellSize {
		return fmt.Errorf("config validation: cell_size must be between %g and %g, got %g",
			MinCellSize, MaxCellSize, config.CellSize)
	}

	if config.Acceleration <= 0 {
		return fmt.Errorf("config validation: acceleration must be positive, got %g", config.Acceleration)
	}
	if config.Friction <= 0 || config.Friction >= 1 {
		return fmt.Errorf("config validation: friction must be strictly between 0 and 1, got %g", config.Friction)
	}
	if config.Restitution < 0 || config.Restitution > 1 {
		return fmt.Errorf("config validation: restitution must be between 0 and 1, got %g", config.Restitution)
	}
	if config.BallRadiusRatio <= 0 || config.BallRadiusRatio >= 0.5 {
		// At 0.5 the ball diameter equals the corridor width and it wedges.
		return fmt.Errorf("config validation: ball_radius_ratio must be strictly between 0 and 0.5, got %g", config.BallRadiusRatio)
	}

	if config.TickHz < 1 || config.TickHz > MaxTickHz {
		return fmt.Errorf("config validation: tick_hz must be between 1 and %d, got %d", MaxTickHz, config.TickHz)
	}

	return nil
}

// DefaultGameConfig returns the built-in tuning used when no config file is
// available: a 15x9 maze with the classic forgiving physics constants.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "15x9 maze with the default tilt physics tuning",
		Cols:            15,
		Rows:            9,
		CellSize:        40,
		Acceleration:    0.5,
		Friction:        0.96,
		Restitution:     0.5,
		BallRadiusRatio: 0.3,
		TickHz:          60,
	}
}

// LoadGameConfig loads and validates a game configuration from a JSON file.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
