package engine

import (
	"github.com/tiltmaze/tilt-maze-game/game/maze"
)

// Phase is the session state machine position
type Phase string

const (
	// PhaseIdle is the initial phase, before the first start
	PhaseIdle Phase = "idle"
	// PhasePlaying means the frame cycle is live
	PhasePlaying Phase = "playing"
	// PhaseFinished means the ball reached the goal; only a retry leaves it
	PhaseFinished Phase = "finished"

	// GoalThresholdRatio scales the goal hit-test radius by the cell size.
	// Half a cell is deliberately forgiving.
	GoalThresholdRatio = 0.5

	// MaxAdvanceFrames caps manual frame advancement per call (10 s at 60 Hz)
	MaxAdvanceFrames = 600
)

// BallState is the wire representation of the body's kinematic state
type BallState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

// MazeState is the wire representation of the generated grid. Layout rows
// use '#' for wall cells and '.' for path cells.
type MazeState struct {
	Cols     int        `json:"cols"`
	Rows     int        `json:"rows"`
	CellSize float64    `json:"cell_size"`
	Start    maze.Point `json:"start"`
	Goal     maze.Point `json:"goal"`
	Layout   []string   `json:"layout"`
}

// GameState is the complete snapshot exposed over the API. Ball and Maze
// are nil while the session is idle (nothing has been generated yet).
type GameState struct {
	Phase               Phase      `json:"phase"`
	ElapsedSeconds      float64    `json:"elapsed_seconds"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds"`
	Input               InputState `json:"input"`
	Ball                *BallState `json:"ball,omitempty"`
	Maze                *MazeState `json:"maze,omitempty"`
	ConfigName          string     `json:"config_name"`
}

// InputState is the normalized input vector, each component in [-1, 1]
type InputState struct {
	IX float64 `json:"ix"`
	IY float64 `json:"iy"`
}

// Frame is the per-tick snapshot broadcast while a session is live. It
// omits the maze, which clients receive once per start.
type Frame struct {
	Phase               Phase      `json:"phase"`
	ElapsedSeconds      float64    `json:"elapsed_seconds"`
	FinalElapsedSeconds float64    `json:"final_elapsed_seconds,omitempty"`
	Ball                *BallState `json:"ball,omitempty"`
	JustFinished        bool       `json:"just_finished,omitempty"`
}

// Rect is a filled square draw primitive
type Rect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Style string  `json:"style"`
}

// Circle is a filled circle draw primitive
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Style  string  `json:"style"`
}

// Draw primitive styles understood by the drawing surface
const (
	StyleWall = "wall"
	StyleGoal = "goal"
	StyleBall = "ball"
)

// DrawList is everything the drawing surface needs for one frame: wall
// rectangles, the goal circle, then the ball circle, in paint order.
type DrawList struct {
	Rects   []Rect   `json:"rects"`
	Circles []Circle `json:"circles"`
}
