package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// ErrRealtimeActive is returned by Advance while a real-time loop is
// driving the session; the two schedulers must not race on the engine.
var ErrRealtimeActive = errors.New("session is running in real-time mode")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster FrameBroadcaster
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// SetBroadcaster wires the frame sink for real-time sessions
func (s *gameServiceImpl) SetBroadcaster(b FrameBroadcaster) {
	s.broadcaster = b
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      s.snapshot(session),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      s.snapshot(session),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      s.snapshot(sess),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession stops the session's loop if one is live and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err == nil {
		s.stopRunner(sess)
	}
	return s.sessions.Delete(sessionID)
}

// StartGame begins a new run: any previous loop is stopped first, the
// engine regenerates the maze, and in real-time mode a fresh loop starts
// ticking at the configured rate. Works from any phase, so it doubles as
// the retry operation.
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string, realtime bool) (*StartResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	// Stop the previous loop before touching the engine; a stale ticker
	// firing after the reset would corrupt the new run's timer. A
	// concurrent start can install a fresh runner between our stop and
	// the re-lock, so keep detaching until the slot stays empty under
	// the lock we install with.
	sess.Mu.Lock()
	for sess.runner != nil {
		r := sess.runner
		sess.runner = nil
		sess.Mu.Unlock()
		r.stop()
		sess.Mu.Lock()
	}

	if err := sess.Engine.Start(time.Now()); err != nil {
		sess.Mu.Unlock()
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	state := sess.Engine.Snapshot()
	if realtime {
		sess.runner = newRunner(sess, sess.Config.TickHz, s.broadcaster)
		go sess.runner.run()
	}
	sess.Mu.Unlock()

	return &StartResult{
		Realtime:  realtime,
		TickHz:    sess.Config.TickHz,
		GameState: state,
	}, nil
}

// SetInput updates the session's normalized input vector
func (s *gameServiceImpl) SetInput(ctx context.Context, sessionID string, ix, iy float64) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Mu.Lock()
	sess.Engine.SetInput(ix, iy)
	sess.Mu.Unlock()
	return nil
}

// Advance steps a headless session forward by up to frames fixed
// timesteps, stopping early on the finish frame. Rejected while a
// real-time loop owns the session.
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, frames int) (*AdvanceResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if sess.runner != nil && sess.runner.running() {
		return nil, ErrRealtimeActive
	}

	result := &AdvanceResult{FramesRequested: frames}
	if frames > engine.MaxAdvanceFrames {
		result.Truncated = true
		result.Limit = engine.MaxAdvanceFrames
		frames = engine.MaxAdvanceFrames
	}

	dt := time.Second / time.Duration(sess.Config.TickHz)
	for i := 0; i < frames; i++ {
		if sess.Engine.Phase() != engine.PhasePlaying {
			break
		}
		frame := sess.Engine.Step(dt)
		result.FramesExecuted++
		if frame.JustFinished {
			result.Finished = true
			result.FinalElapsedSeconds = frame.FinalElapsedSeconds
			break
		}
	}

	result.GameState = sess.Engine.Snapshot()
	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.snapshot(sess), nil
}

// GetRenderPrimitives returns the draw list for the session's current frame
func (s *gameServiceImpl) GetRenderPrimitives(ctx context.Context, sessionID string) (*engine.DrawList, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return sess.Engine.RenderPrimitives(), nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) snapshot(sess *Session) *engine.GameState {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return sess.Engine.Snapshot()
}

// stopRunner detaches and drains the session's loop. Must be called
// without holding sess.Mu: the loop takes the lock on every tick, and
// stop waits for the loop to exit.
func (s *gameServiceImpl) stopRunner(sess *Session) {
	sess.Mu.Lock()
	r := sess.runner
	sess.runner = nil
	sess.Mu.Unlock()
	if r != nil {
		r.stop()
	}
}
