package main

import (
	"fmt"
	"math"
)

// Pilot steers the ball along a BFS route through the maze. The route
// is planned once per run; in a perfect maze there is exactly one path
// between any two cells, so it never needs replanning.
type Pilot struct {
	maze      *MazeState
	waypoints []Point
	index     int
}

// Controller gains. The tilt vector acts as acceleration, so steering
// is a PD controller: pull toward the waypoint center, damp velocity
// to keep the ball from slamming into corridor walls.
const (
	gainPosition = 1.0
	gainVelocity = 0.35
	arriveRatio  = 0.45 // fraction of a cell within which a waypoint counts as reached
)

// NewPilot plans a route from the start cell to the goal.
func NewPilot(maze *MazeState) (*Pilot, error) {
	path := bfsPath(maze.Layout, maze.Start, maze.Goal)
	if path == nil {
		return nil, fmt.Errorf("no path from (%d,%d) to (%d,%d)",
			maze.Start.X, maze.Start.Y, maze.Goal.X, maze.Goal.Y)
	}

	return &Pilot{
		maze:      maze,
		waypoints: compressPath(path),
		index:     0,
	}, nil
}

// Steer returns the tilt vector for the current ball position. It
// advances to the next waypoint once the ball is close enough to the
// current one.
func (p *Pilot) Steer(ball *BallState) (float64, float64) {
	size := p.maze.CellSize

	for p.index < len(p.waypoints)-1 {
		tx, ty := p.cellCenter(p.waypoints[p.index])
		if math.Hypot(ball.X-tx, ball.Y-ty) < size*arriveRatio {
			p.index++
			continue
		}
		break
	}

	tx, ty := p.cellCenter(p.waypoints[p.index])
	ix := gainPosition*(tx-ball.X)/size - gainVelocity*ball.VX
	iy := gainPosition*(ty-ball.Y)/size - gainVelocity*ball.VY

	return clamp(ix), clamp(iy)
}

func (p *Pilot) cellCenter(cell Point) (float64, float64) {
	size := p.maze.CellSize
	return (float64(cell.X) + 0.5) * size, (float64(cell.Y) + 0.5) * size
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// bfsPath finds the cell path from start to goal over the layout
// strings ('#' wall, '.' path). Returns nil when unreachable.
func bfsPath(layout []string, start, goal Point) []Point {
	rows := len(layout)
	if rows == 0 {
		return nil
	}
	cols := len(layout[0])

	isOpen := func(p Point) bool {
		return p.X >= 0 && p.X < cols && p.Y >= 0 && p.Y < rows && layout[p.Y][p.X] != '#'
	}
	if !isOpen(start) || !isOpen(goal) {
		return nil
	}
	if start == goal {
		return []Point{start}
	}

	prev := make(map[Point]Point)
	visited := map[Point]bool{start: true}
	queue := []Point{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range []Point{
			{current.X, current.Y - 1},
			{current.X, current.Y + 1},
			{current.X - 1, current.Y},
			{current.X + 1, current.Y},
		} {
			if visited[next] || !isOpen(next) {
				continue
			}
			visited[next] = true
			prev[next] = current

			if next == goal {
				// Walk back to the start to recover the path
				path := []Point{goal}
				for at := current; ; at = prev[at] {
					path = append(path, at)
					if at == start {
						break
					}
				}
				reverse(path)
				return path
			}
			queue = append(queue, next)
		}
	}

	return nil
}

// compressPath drops cells where the route continues straight, keeping
// only the start, corners, and the goal. Fewer waypoints means fewer
// abrupt steering reversals in long corridors.
func compressPath(path []Point) []Point {
	if len(path) <= 2 {
		return path
	}

	out := []Point{path[0]}
	for i := 1; i < len(path)-1; i++ {
		prevDX := path[i].X - path[i-1].X
		prevDY := path[i].Y - path[i-1].Y
		nextDX := path[i+1].X - path[i].X
		nextDY := path[i+1].Y - path[i].Y
		if prevDX != nextDX || prevDY != nextDY {
			out = append(out, path[i])
		}
	}
	return append(out, path[len(path)-1])
}

func reverse(path []Point) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
