package physics

import (
	"math"

	"github.com/tiltmaze/tilt-maze-game/game/maze"
)

// ResolveGrid resolves the body against every wall cell its bounding box
// touches, mutating position and velocity in place. Cells are visited in
// row-major order and each is resolved independently in a single pass; a
// frame may leave small residual penetration at concave corners, which the
// next frame picks up.
func ResolveGrid(b *Body, g *maze.Grid, cellSize, restitution float64) {
	minCol := int(math.Floor((b.Pos.X - b.Radius) / cellSize))
	maxCol := int(math.Floor((b.Pos.X + b.Radius) / cellSize))
	minRow := int(math.Floor((b.Pos.Y - b.Radius) / cellSize))
	maxRow := int(math.Floor((b.Pos.Y + b.Radius) / cellSize))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !g.IsWall(col, row) {
				continue
			}
			resolveRect(b, float64(col)*cellSize, float64(row)*cellSize, cellSize, restitution)
		}
	}
}

// resolveRect resolves the circle against one axis-aligned square using the
// closest-point method: clamp the center to the rectangle, push the circle
// out along the resulting normal, and reflect the inward velocity component
// scaled by the restitution. Tangential velocity is untouched.
func resolveRect(b *Body, rx, ry, size, restitution float64) {
	cx := clamp(b.Pos.X, rx, rx+size)
	cy := clamp(b.Pos.Y, ry, ry+size)

	dx := b.Pos.X - cx
	dy := b.Pos.Y - cy
	distSq := dx*dx + dy*dy

	// distSq == 0 means the center sits exactly on the rectangle boundary
	// and the normal is undefined; skip this frame rather than guessing.
	if distSq >= b.Radius*b.Radius || distSq == 0 {
		return
	}

	dist := math.Sqrt(distSq)
	nx := dx / dist
	ny := dy / dist

	// Positional correction: push out to exactly radius distance.
	b.Pos.X += nx * (b.Radius - dist)
	b.Pos.Y += ny * (b.Radius - dist)

	// Velocity correction only when moving into the surface.
	vn := b.Vel.X*nx + b.Vel.Y*ny
	if vn < 0 {
		b.Vel.X -= nx * vn * (1 + restitution)
		b.Vel.Y -= ny * vn * (1 + restitution)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
