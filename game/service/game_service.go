package service

import (
	"context"
	"sync"
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	StartGame(ctx context.Context, sessionID string, realtime bool) (*StartResult, error)
	SetInput(ctx context.Context, sessionID string, ix, iy float64) error
	Advance(ctx context.Context, sessionID string, frames int) (*AdvanceResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetRenderPrimitives(ctx context.Context, sessionID string) (*engine.DrawList, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// SetBroadcaster wires the sink that receives per-tick frames from
	// real-time sessions. Call once at startup, before any StartGame.
	SetBroadcaster(b FrameBroadcaster)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// FrameBroadcaster receives per-tick frames from live sessions, typically
// the websocket hub. Implementations must not block the caller.
type FrameBroadcaster interface {
	BroadcastFrame(sessionID string, frame *engine.Frame)
}

// Session represents an active game session. Mu serializes all access to
// the engine; the real-time loop and the transports contend on it.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	Mu     sync.Mutex
	runner *runner
}
