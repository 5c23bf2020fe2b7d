package flappy

import "github.com/thxaman/flappy-lidar/internal/core"

// Body physics constants, in world units per tick at 60 ticks per second.
const (
	Gravity      = 0.2  // Downward acceleration per tick
	JumpVelocity = -4.0 // Velocity set by a jump (negative = up)
	BodyX        = 100  // Fixed horizontal centre of the body
	BodyWidth    = 34   // Body sprite width
	BodyHeight   = 24   // Body sprite height
	tiltFactor   = 4    // Display degrees per unit of velocity
)

// BodySpawn is where the body's centre is placed at the start of every round.
var BodySpawn = core.V(BodyX, ScreenHeight/2)

// Body is the player-controlled falling body. Only its vertical position and
// velocity change; x is fixed.
type Body struct {
	y    float64
	vel  float64
	mask *core.Mask
	rect bool // Use the bounding box instead of the pixel mask
}

// NewBody creates a body at the spawn point. If rectShape is set, collision
// uses the body's bounding box instead of its pixel mask.
func NewBody(rectShape bool) *Body {
	b := &Body{
		mask: core.EllipseMask(BodyWidth, BodyHeight),
		rect: rectShape,
	}
	b.Reset()
	return b
}

// Reset places the body at the spawn point with zero velocity.
func (b *Body) Reset() {
	b.y = BodySpawn.Y
	b.vel = 0
}

// Integrate advances the body by dt ticks: gravity first, then velocity.
func (b *Body) Integrate(dt float64) {
	b.vel += Gravity * dt
	b.y += b.vel * dt
}

// Jump overwrites the current velocity with the jump velocity.
func (b *Body) Jump() {
	b.vel = JumpVelocity
}

// Center returns the body's centre point.
func (b *Body) Center() core.Vec {
	return core.V(BodyX, b.y)
}

// Velocity returns the current vertical velocity (positive = falling).
func (b *Body) Velocity() float64 {
	return b.vel
}

// Angle returns the display tilt in degrees, counter-clockwise positive. It is
// derived from velocity and has no effect on physics or collision.
func (b *Body) Angle() float64 {
	return -b.vel * tiltFactor
}

// Shape returns the body's collision shape at its current position.
func (b *Body) Shape() core.Shape {
	if b.rect {
		return core.RectFromCenter(b.Center(), BodyWidth, BodyHeight)
	}
	return b.mask.CenteredAt(b.Center())
}
