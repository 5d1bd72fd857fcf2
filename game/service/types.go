package service

import (
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// StartResult contains the result of starting (or retrying) a run
type StartResult struct {
	Realtime  bool              `json:"realtime"`
	TickHz    int               `json:"tick_hz"`
	GameState *engine.GameState `json:"game_state"`
}

// AdvanceResult contains the result of manually advancing frames
type AdvanceResult struct {
	FramesRequested     int               `json:"frames_requested"`
	FramesExecuted      int               `json:"frames_executed"`
	Truncated           bool              `json:"truncated,omitempty"`
	Limit               int               `json:"limit,omitempty"`
	Finished            bool              `json:"finished"`
	FinalElapsedSeconds float64           `json:"final_elapsed_seconds,omitempty"`
	GameState           *engine.GameState `json:"game_state"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string  `json:"filename"`
	ConfigID    string  `json:"config_id"` // The identifier to use for session creation
	Name        string  `json:"name"`      // Display name
	Description string  `json:"description"`
	Cols        int     `json:"cols"`
	Rows        int     `json:"rows"`
	CellSize    float64 `json:"cell_size"`
	TickHz      int     `json:"tick_hz"`
}
