package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/engine"
)

// mockSessionManager is an in-memory SessionManager for testing
type mockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	nextID   int
}

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{sessions: make(map[string]*Session)}
}

func (m *mockSessionManager) Create(id string, config *engine.GameConfig) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		m.nextID++
		id = fmt.Sprintf("s%03d", m.nextID)
	}
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = sess
	return sess, nil
}

func (m *mockSessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return sess, nil
}

func (m *mockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*Session, error) {
	if sess, err := m.Get(id); err == nil {
		return sess, nil
	}
	return m.Create(id, config)
}

func (m *mockSessionManager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *mockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		sess.LastAccessedAt = time.Now()
	}
	return nil
}

// mockConfigManager serves a single fixed configuration
type mockConfigManager struct {
	config *engine.GameConfig
	saved  map[string]*engine.GameConfig
}

func newMockConfigManager() *mockConfigManager {
	config := engine.DefaultGameConfig()
	config.Seed = 7
	return &mockConfigManager{
		config: config,
		saved:  make(map[string]*engine.GameConfig),
	}
}

func (m *mockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if name != "classic" {
		return nil, errors.New("configuration not found")
	}
	return m.config, nil
}

func (m *mockConfigManager) ListConfigs() ([]*ConfigInfo, error) {
	return []*ConfigInfo{{
		Filename:    "classic.json",
		ConfigID:    "classic",
		Name:        m.config.Name,
		Description: m.config.Description,
		Cols:        m.config.Cols,
		Rows:        m.config.Rows,
		CellSize:    m.config.CellSize,
		TickHz:      m.config.TickHz,
	}}, nil
}

func (m *mockConfigManager) GetDefault() *engine.GameConfig { return m.config }

func (m *mockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.saved[name] = config
	return nil
}

// recordingBroadcaster captures broadcast frames for assertions
type recordingBroadcaster struct {
	mu     sync.Mutex
	frames []*engine.Frame
}

func (b *recordingBroadcaster) BroadcastFrame(sessionID string, frame *engine.Frame) {
	b.mu.Lock()
	b.frames = append(b.frames, frame)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

func newTestService() GameService {
	return NewGameService(newMockSessionManager(), newMockConfigManager())
}

func createTestSession(t *testing.T, svc GameService) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return info.ID
}

func TestCreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.ID == "" {
		t.Error("Expected non-empty session ID")
	}
	if info.GameState.Phase != engine.PhaseIdle {
		t.Errorf("new session phase = %s, want idle", info.GameState.Phase)
	}
	if info.GameState.Maze != nil {
		t.Error("new session should have no maze before start")
	}
}

func TestCreateSession_UnknownConfig(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateSession(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown config")
	}
}

func TestStartGame_Manual(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	result, err := svc.StartGame(ctx, id, false)
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if result.Realtime {
		t.Error("expected manual mode")
	}
	if result.GameState.Phase != engine.PhasePlaying {
		t.Errorf("phase = %s, want playing", result.GameState.Phase)
	}
	if result.GameState.Maze == nil {
		t.Fatal("no maze after start")
	}
	if result.TickHz != 60 {
		t.Errorf("tick_hz = %d, want 60", result.TickHz)
	}
}

func TestAdvance(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	if _, err := svc.StartGame(ctx, id, false); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if err := svc.SetInput(ctx, id, 1, 0); err != nil {
		t.Fatalf("SetInput failed: %v", err)
	}

	result, err := svc.Advance(ctx, id, 30)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if result.FramesExecuted != 30 {
		t.Errorf("frames executed = %d, want 30", result.FramesExecuted)
	}
	if result.GameState.ElapsedSeconds != 0.5 {
		t.Errorf("elapsed = %f, want 0.5", result.GameState.ElapsedSeconds)
	}
	if result.GameState.Ball.VX <= 0 {
		t.Errorf("vx = %f, want > 0", result.GameState.Ball.VX)
	}
}

func TestAdvance_CapsFrameCount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)
	svc.StartGame(ctx, id, false)

	result, err := svc.Advance(ctx, id, 10000)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !result.Truncated {
		t.Error("expected truncation flag")
	}
	if result.Limit != engine.MaxAdvanceFrames {
		t.Errorf("limit = %d, want %d", result.Limit, engine.MaxAdvanceFrames)
	}
	if result.FramesExecuted > engine.MaxAdvanceFrames {
		t.Errorf("executed %d frames, cap is %d", result.FramesExecuted, engine.MaxAdvanceFrames)
	}
}

func TestAdvance_BeforeStart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	result, err := svc.Advance(ctx, id, 10)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if result.FramesExecuted != 0 {
		t.Errorf("executed %d frames while idle, want 0", result.FramesExecuted)
	}
}

func TestAdvance_RejectedDuringRealtime(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	if _, err := svc.StartGame(ctx, id, true); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	defer svc.DeleteSession(ctx, id)

	_, err := svc.Advance(ctx, id, 10)
	if !errors.Is(err, ErrRealtimeActive) {
		t.Errorf("expected ErrRealtimeActive, got %v", err)
	}
}

func TestStartGame_RealtimeBroadcasts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	broadcaster := &recordingBroadcaster{}
	svc.SetBroadcaster(broadcaster)

	id := createTestSession(t, svc)
	if _, err := svc.StartGame(ctx, id, true); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	defer svc.DeleteSession(ctx, id)

	deadline := time.After(2 * time.Second)
	for broadcaster.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d frames broadcast within deadline", broadcaster.count())
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestStartGame_RestartStopsPreviousLoop(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	if _, err := svc.StartGame(ctx, id, true); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	// Rapid restart into manual mode must leave no loop behind.
	if _, err := svc.StartGame(ctx, id, false); err != nil {
		t.Fatalf("restart failed: %v", err)
	}

	if _, err := svc.Advance(ctx, id, 5); err != nil {
		t.Errorf("Advance after restart failed: %v", err)
	}

	state, _ := svc.GetGameState(ctx, id)
	// Five manual frames at 60 Hz; a leftover real-time loop would have
	// pushed elapsed far past this.
	if state.ElapsedSeconds > 0.2 {
		t.Errorf("elapsed = %f, leftover loop suspected", state.ElapsedSeconds)
	}
}

func TestStartGame_ConcurrentRestartsLeaveOneLoop(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	// Hammer restarts from several goroutines. A start that stops the old
	// loop and installs its own non-atomically can orphan a runner that
	// keeps ticking with no reference left to stop it.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := svc.StartGame(ctx, id, true); err != nil {
					t.Errorf("StartGame failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// A manual start must sweep whatever loop the racing starts left
	// installed. Any orphan would keep advancing the clock on its own.
	if _, err := svc.StartGame(ctx, id, false); err != nil {
		t.Fatalf("final manual start failed: %v", err)
	}

	before, _ := svc.GetGameState(ctx, id)
	time.Sleep(150 * time.Millisecond)
	after, _ := svc.GetGameState(ctx, id)
	if after.ElapsedSeconds != before.ElapsedSeconds {
		t.Errorf("clock moved %f -> %f with no scheduler attached",
			before.ElapsedSeconds, after.ElapsedSeconds)
	}
}

func TestDeleteSession_StopsLoop(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	svc.StartGame(ctx, id, true)
	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	if _, err := svc.GetGameState(ctx, id); err == nil {
		t.Error("expected error for deleted session")
	}
}

func TestSetInput_UnknownSession(t *testing.T) {
	svc := newTestService()
	if err := svc.SetInput(context.Background(), "nope", 1, 0); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestGetRenderPrimitives(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	list, err := svc.GetRenderPrimitives(ctx, id)
	if err != nil {
		t.Fatalf("GetRenderPrimitives failed: %v", err)
	}
	if list != nil {
		t.Error("expected nil draw list before start")
	}

	svc.StartGame(ctx, id, false)
	list, err = svc.GetRenderPrimitives(ctx, id)
	if err != nil {
		t.Fatalf("GetRenderPrimitives failed: %v", err)
	}
	if list == nil || len(list.Rects) == 0 || len(list.Circles) != 2 {
		t.Errorf("unexpected draw list: %+v", list)
	}
}

func TestListSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	createTestSession(t, svc)
	createTestSession(t, svc)

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("got %d sessions, want 2", len(sessions))
	}
}

func TestListConfigs(t *testing.T) {
	svc := newTestService()

	configs, err := svc.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 1 || configs[0].ConfigID != "classic" {
		t.Errorf("unexpected config list: %+v", configs)
	}
}

func TestGameEndToEnd_ManualFinish(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	id := createTestSession(t, svc)

	if _, err := svc.StartGame(ctx, id, false); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	// Steer greedily toward the goal center. The maze will stop the ball
	// at walls; this only asserts the plumbing, not a solve.
	state, _ := svc.GetGameState(ctx, id)
	goal := state.Maze.Goal
	goalX := (float64(goal.X) + 0.5) * state.Maze.CellSize
	goalY := (float64(goal.Y) + 0.5) * state.Maze.CellSize

	for i := 0; i < 20; i++ {
		state, _ = svc.GetGameState(ctx, id)
		if state.Phase == engine.PhaseFinished {
			break
		}
		ix, iy := 0.0, 0.0
		if state.Ball.X < goalX {
			ix = 1
		} else if state.Ball.X > goalX {
			ix = -1
		}
		if state.Ball.Y < goalY {
			iy = 1
		} else if state.Ball.Y > goalY {
			iy = -1
		}
		svc.SetInput(ctx, id, ix, iy)
		if _, err := svc.Advance(ctx, id, 60); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	state, _ = svc.GetGameState(ctx, id)
	if state.Phase != engine.PhasePlaying && state.Phase != engine.PhaseFinished {
		t.Errorf("unexpected phase %s", state.Phase)
	}
	if state.Phase == engine.PhaseFinished && state.FinalElapsedSeconds <= 0 {
		t.Errorf("finished with final time %f", state.FinalElapsedSeconds)
	}
}
