package flappy

import (
	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// BodyView is the body as seen by front-ends.
type BodyView struct {
	Center   core.Vec
	Velocity float64
	Angle    float64   // Display tilt in degrees, counter-clockwise positive
	Bounds   core.Rect // Bounding box of the collision shape
}

// Snapshot is a copy of everything a front-end needs to draw one frame. It
// shares no memory with the Game.
type Snapshot struct {
	State     State
	Score     int
	Round     int
	Ticks     int
	Cause     Cause
	Body      BodyView
	Obstacles []Obstacle
	Scan      []lidar.Sample // Empty unless playing with a scanner
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State: g.state,
		Score: g.score,
		Round: g.round,
		Ticks: g.activeTick,
		Cause: g.cause,
		Body: BodyView{
			Center:   g.body.Center(),
			Velocity: g.body.Velocity(),
			Angle:    g.body.Angle(),
			Bounds:   g.body.Shape().Bounds(),
		},
		Obstacles: g.field.Obstacles(),
	}
	if len(g.scan) > 0 {
		s.Scan = make([]lidar.Sample, len(g.scan))
		copy(s.Scan, g.scan)
	}
	return s
}
