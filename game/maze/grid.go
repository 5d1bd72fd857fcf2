package maze

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	// MinGridSize is the smallest usable dimension: a start and goal two
	// cells apart must exist inside the border.
	MinGridSize = 5
	// MaxGridSize bounds generation so misconfigured viewports can't
	// allocate absurd grids.
	MaxGridSize = 99
)

// ErrInvalidSize is returned when cols or rows are even or out of range.
// Even dimensions would break the odd-lattice carving invariant, so they
// are rejected rather than silently adjusted.
var ErrInvalidSize = fmt.Errorf("maze: cols and rows must be odd and within [%d, %d]", MinGridSize, MaxGridSize)

// Grid is a generated maze. The border ring is always Wall, the start cell
// is always Path, and every Path cell is reachable from the start through
// exactly one simple path (perfect maze). A Grid is immutable after
// generation.
type Grid struct {
	Cols, Rows int
	Cells      [][]Cell // indexed [row][col]
	Start      Point
	Goal       Point
}

// Generate carves a perfect maze of the given dimensions using randomized
// iterative backtracking ("hole digging") over the odd-coordinate lattice.
// The stack is explicit so large grids can't blow the call stack.
func Generate(cols, rows int, rng *rand.Rand) (*Grid, error) {
	if cols < MinGridSize || rows < MinGridSize || cols > MaxGridSize || rows > MaxGridSize || cols%2 == 0 || rows%2 == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, cols, rows)
	}

	cells := make([][]Cell, rows)
	for y := range cells {
		cells[y] = make([]Cell, cols)
	}

	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		Cells: cells,
		Start: Point{X: 1, Y: 1},
		Goal:  Point{X: cols - 2, Y: rows - 2},
	}

	g.carve(rng)
	g.relocateGoalIfWalled()
	return g, nil
}

// steps are the four carve directions, two cells at a time. The wall
// between the current and target cell sits at the half offset.
var steps = [4]Point{
	{X: 0, Y: -2},
	{X: 0, Y: 2},
	{X: -2, Y: 0},
	{X: 2, Y: 0},
}

func (g *Grid) carve(rng *rand.Rand) {
	stack := []Point{g.Start}
	g.Cells[g.Start.Y][g.Start.X] = Path

	var candidates [4]Point
	for len(stack) > 0 {
		cur := stack[len(stack)-1] // peek, pop only on dead end

		n := 0
		for _, d := range steps {
			t := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if t.X < 1 || t.X > g.Cols-2 || t.Y < 1 || t.Y > g.Rows-2 {
				continue
			}
			if g.Cells[t.Y][t.X] != Wall {
				continue
			}
			candidates[n] = t
			n++
		}

		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		t := candidates[rng.Intn(n)]
		g.Cells[(cur.Y+t.Y)/2][(cur.X+t.X)/2] = Path
		g.Cells[t.Y][t.X] = Path
		stack = append(stack, t)
	}
}

// relocateGoalIfWalled nudges the goal onto an adjacent Path cell if the
// carve left it walled, which can only happen at a size boundary. The cell
// to the left is preferred, then the one above.
func (g *Grid) relocateGoalIfWalled() {
	if g.Cells[g.Goal.Y][g.Goal.X] == Path {
		return
	}
	if g.Goal.X > 0 && g.Cells[g.Goal.Y][g.Goal.X-1] == Path {
		g.Goal.X--
		return
	}
	if g.Goal.Y > 0 && g.Cells[g.Goal.Y-1][g.Goal.X] == Path {
		g.Goal.Y--
	}
}

// IsWall reports whether the cell at (col, row) blocks the ball.
// Out-of-bounds coordinates count as walls so the collision pass can treat
// the area beyond the border uniformly.
func (g *Grid) IsWall(col, row int) bool {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return true
	}
	return g.Cells[row][col] == Wall
}

// At returns the cell state at (col, row). It panics on out-of-range
// indices, mirroring slice semantics; use IsWall for tolerant queries.
func (g *Grid) At(col, row int) Cell {
	return g.Cells[row][col]
}

// Layout renders the grid as one string per row ('#' wall, '.' path),
// the wire representation used by the API and config tooling.
func (g *Grid) Layout() []string {
	rows := make([]string, g.Rows)
	var b strings.Builder
	for y := 0; y < g.Rows; y++ {
		b.Reset()
		for x := 0; x < g.Cols; x++ {
			b.WriteString(g.Cells[y][x].String())
		}
		rows[y] = b.String()
	}
	return rows
}
