package physics

// Vec2 is a 2D vector in pixel/unit space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Body is the kinematic state of the ball. There is no velocity clamp;
// per-frame friction is the only damping, so a constant input a settles
// at a terminal speed of a * friction / (1 - friction) per axis (the
// frame's own acceleration is damped too).
type Body struct {
	Pos      Vec2
	Vel      Vec2
	Radius   float64
	Friction float64 // per-frame velocity multiplier, 0 < Friction < 1
}

// NewBody creates a body at rest at the given position.
func NewBody(pos Vec2, radius, friction float64) *Body {
	return &Body{Pos: pos, Radius: radius, Friction: friction}
}

// Integrate advances the body by one frame using semi-implicit Euler:
// the acceleration is applied as a velocity delta, friction scales the
// velocity, then the position moves by the damped velocity. Friction is
// applied uniformly per frame regardless of frame duration; this matches
// the feel the tuning constants were chosen for.
func (b *Body) Integrate(ax, ay float64) {
	b.Vel.X += ax
	b.Vel.Y += ay
	b.Vel.X *= b.Friction
	b.Vel.Y *= b.Friction
	b.Pos.X += b.Vel.X
	b.Pos.Y += b.Vel.Y
}
