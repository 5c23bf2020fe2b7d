package flappy

import "github.com/thxaman/flappy-lidar/internal/core"

// Outcome is the result of a collision check.
type Outcome int

const (
	Alive Outcome = iota
	Dead
)

// String returns the outcome name.
func (o Outcome) String() string {
	if o == Dead {
		return "dead"
	}
	return "alive"
}

// Cause tells what ended a round.
type Cause int

const (
	CauseNone Cause = iota
	CauseObstacle
	CauseCeiling
	CauseGround
)

// String returns the cause name used in logs and recorded runs.
func (c Cause) String() string {
	switch c {
	case CauseObstacle:
		return "obstacle"
	case CauseCeiling:
		return "ceiling"
	case CauseGround:
		return "ground"
	default:
		return "none"
	}
}

// Check tests the body against the world bounds and every obstacle. It only
// reads its arguments.
func Check(body *Body, obstacles []core.Rect) (Outcome, Cause) {
	c := body.Center()
	if c.Y <= CeilingY {
		return Dead, CauseCeiling
	}
	if c.Y >= GroundY {
		return Dead, CauseGround
	}

	shape := body.Shape()
	for _, r := range obstacles {
		if shape.Intersects(r) {
			return Dead, CauseObstacle
		}
	}
	return Alive, CauseNone
}
