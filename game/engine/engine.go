package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tiltmaze/tilt-maze-game/game/maze"
	"github.com/tiltmaze/tilt-maze-game/game/physics"
)

// Engine provides the main interface for game operations
type Engine interface {
	// State machine
	Start(now time.Time) error
	Tick(now time.Time) *Frame
	Step(dt time.Duration) *Frame
	Phase() Phase

	// Input
	SetInput(ix, iy float64)
	Input() InputState

	// State access
	Snapshot() *GameState
	RenderPrimitives() *DrawList
	ElapsedSeconds() float64
	FinalElapsedSeconds() float64

	// Configuration
	Config() *GameConfig
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access per session (see game/service).
type GameEngine struct {
	config *GameConfig
	rng    *rand.Rand

	phase Phase
	grid  *maze.Grid
	body  *physics.Body
	input physics.Vec2

	startedAt    time.Time
	elapsed      float64
	finalElapsed float64
}

// NewEngine creates a new game engine with the provided configuration.
// The engine starts idle; Start generates the maze and places the ball.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GameEngine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		phase:  PhaseIdle,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGameConfig())
	if err != nil {
		// The default config is validated by tests; this cannot happen.
		panic(fmt.Sprintf("engine: default config invalid: %v", err))
	}
	return e
}

// Start (re)generates the maze, places the ball at rest at the start cell
// center, resets the timer and input, and transitions to playing. It is the
// single entry into PhasePlaying, used both for the first start and for
// retries after a finish.
func (e *GameEngine) Start(now time.Time) error {
	grid, err := maze.Generate(e.config.Cols, e.config.Rows, e.rng)
	if err != nil {
		return fmt.Errorf("failed to generate maze: %w", err)
	}

	e.grid = grid
	e.body = physics.NewBody(
		e.cellCenter(grid.Start),
		e.config.CellSize*e.config.BallRadiusRatio,
		e.config.Friction,
	)
	e.input = physics.Vec2{}
	e.startedAt = now
	e.elapsed = 0
	e.finalElapsed = 0
	e.phase = PhasePlaying
	return nil
}

// SetInput stores the normalized input vector, clamping each component to
// [-1, 1]. Input may arrive in any phase but is only consumed while playing.
func (e *GameEngine) SetInput(ix, iy float64) {
	e.input.X = clamp1(ix)
	e.input.Y = clamp1(iy)
}

// Input returns the current normalized input vector
func (e *GameEngine) Input() InputState {
	return InputState{IX: e.input.X, IY: e.input.Y}
}

// Tick runs one frame of the update cycle: elapsed time, acceleration from
// input, integration, collision resolution, then the goal check. It is a
// no-op outside PhasePlaying, which guards against stale scheduler
// callbacks after a reset. The returned frame reflects the state after the
// cycle; JustFinished is set on the exact frame of the goal transition.
func (e *GameEngine) Tick(now time.Time) *Frame {
	if e.phase != PhasePlaying {
		return e.frame(false)
	}

	e.elapsed = now.Sub(e.startedAt).Seconds()
	return e.cycle()
}

// Step advances the simulation by a fixed timestep instead of the wall
// clock, for headless play where no real-time loop drives the session.
// Like Tick it is a no-op outside PhasePlaying.
func (e *GameEngine) Step(dt time.Duration) *Frame {
	if e.phase != PhasePlaying {
		return e.frame(false)
	}

	e.elapsed += dt.Seconds()
	return e.cycle()
}

func (e *GameEngine) cycle() *Frame {
	ax := e.input.X * e.config.Acceleration
	ay := e.input.Y * e.config.Acceleration
	e.body.Integrate(ax, ay)

	physics.ResolveGrid(e.body, e.grid, e.config.CellSize, e.config.Restitution)

	justFinished := false
	if e.goalReached() {
		e.phase = PhaseFinished
		e.finalElapsed = math.Round(e.elapsed*100) / 100
		justFinished = true
	}

	return e.frame(justFinished)
}

func (e *GameEngine) goalReached() bool {
	goal := e.cellCenter(e.grid.Goal)
	dx := e.body.Pos.X - goal.X
	dy := e.body.Pos.Y - goal.Y
	threshold := GoalThresholdRatio * e.config.CellSize
	return dx*dx+dy*dy < threshold*threshold
}

// Phase returns the current state machine phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// ElapsedSeconds returns the running play time of the current attempt
func (e *GameEngine) ElapsedSeconds() float64 {
	return e.elapsed
}

// FinalElapsedSeconds returns the finish time of the last completed run,
// rounded to two decimals, or 0 if no run has finished.
func (e *GameEngine) FinalElapsedSeconds() float64 {
	return e.finalElapsed
}

// Config returns the engine's configuration
func (e *GameEngine) Config() *GameConfig {
	return e.config
}

// Grid returns the current maze, or nil while idle
func (e *GameEngine) Grid() *maze.Grid {
	return e.grid
}

// Snapshot returns the full wire state, including the maze
func (e *GameEngine) Snapshot() *GameState {
	state := &GameState{
		Phase:               e.phase,
		ElapsedSeconds:      e.elapsed,
		FinalElapsedSeconds: e.finalElapsed,
		Input:               e.Input(),
		ConfigName:          e.config.Name,
	}
	if e.body != nil {
		state.Ball = e.ballState()
	}
	if e.grid != nil {
		state.Maze = &MazeState{
			Cols:     e.grid.Cols,
			Rows:     e.grid.Rows,
			CellSize: e.config.CellSize,
			Start:    e.grid.Start,
			Goal:     e.grid.Goal,
			Layout:   e.grid.Layout(),
		}
	}
	return state
}

// RenderPrimitives emits the draw list for the current frame: one rect per
// wall cell, the goal circle, then the ball circle. Nil while idle.
func (e *GameEngine) RenderPrimitives() *DrawList {
	if e.grid == nil {
		return nil
	}

	size := e.config.CellSize
	list := &DrawList{}
	for y := 0; y < e.grid.Rows; y++ {
		for x := 0; x < e.grid.Cols; x++ {
			if e.grid.At(x, y) == maze.Wall {
				list.Rects = append(list.Rects, Rect{
					X:     float64(x) * size,
					Y:     float64(y) * size,
					Size:  size,
					Style: StyleWall,
				})
			}
		}
	}

	goal := e.cellCenter(e.grid.Goal)
	list.Circles = append(list.Circles, Circle{
		X:      goal.X,
		Y:      goal.Y,
		Radius: size * GoalThresholdRatio,
		Style:  StyleGoal,
	})
	list.Circles = append(list.Circles, Circle{
		X:      e.body.Pos.X,
		Y:      e.body.Pos.Y,
		Radius: e.body.Radius,
		Style:  StyleBall,
	})
	return list
}

func (e *GameEngine) frame(justFinished bool) *Frame {
	f := &Frame{
		Phase:               e.phase,
		ElapsedSeconds:      e.elapsed,
		FinalElapsedSeconds: e.finalElapsed,
		JustFinished:        justFinished,
	}
	if e.body != nil {
		f.Ball = e.ballState()
	}
	return f
}

func (e *GameEngine) ballState() *BallState {
	return &BallState{
		X:      e.body.Pos.X,
		Y:      e.body.Pos.Y,
		VX:     e.body.Vel.X,
		VY:     e.body.Vel.Y,
		Radius: e.body.Radius,
	}
}

func (e *GameEngine) cellCenter(p maze.Point) physics.Vec2 {
	return physics.Vec2{
		X: (float64(p.X) + 0.5) * e.config.CellSize,
		Y: (float64(p.Y) + 0.5) * e.config.CellSize,
	}
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
