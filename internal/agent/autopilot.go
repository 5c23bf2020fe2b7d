// Package agent provides a scan-driven controller that plays the game.
package agent

import (
	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
)

// Autopilot defaults.
const (
	DefaultLookahead = 260 // Horizontal reach of the obstacle hits that steer the body
	DefaultHeadroom  = 45  // No jump when the ceiling or an obstacle is closer than this straight up
	DefaultClearance = 70  // Distance kept from a single obstacle edge
	cruiseY          = 269 // Height held when nothing is in view
)

// Autopilot decides when to jump from the body state and the latest scan.
// It holds no state between frames.
type Autopilot struct {
	Lookahead float64
	Headroom  float64
	Clearance float64
	Restart   bool // Start a new round whenever one is not running
}

// New returns an autopilot with the default tuning.
func New(restart bool) *Autopilot {
	return &Autopilot{
		Lookahead: DefaultLookahead,
		Headroom:  DefaultHeadroom,
		Clearance: DefaultClearance,
		Restart:   restart,
	}
}

// Act returns the input for the next frame.
func (a *Autopilot) Act(snap flappy.Snapshot) core.InputFrame {
	in := core.NewInputFrame()
	if a.Decide(snap) {
		in.Set(core.ActionJump)
	}
	return in
}

// Decide reports whether to press jump.
func (a *Autopilot) Decide(snap flappy.Snapshot) bool {
	if snap.State != flappy.Playing {
		return a.Restart
	}

	for _, sm := range snap.Scan {
		if sm.Angle == 180 && sm.Kind != lidar.HitNone && sm.Distance < a.Headroom {
			return false
		}
	}

	body := snap.Body
	return body.Velocity >= 0 && body.Center.Y > a.Target(snap)
}

// Target returns the height the autopilot steers towards: the middle of the
// opening between the obstacle edges seen ahead, or a cruise height when the
// way is clear.
func (a *Autopilot) Target(snap flappy.Snapshot) float64 {
	body := snap.Body.Center
	top, bottom := flappy.CeilingY-1.0, flappy.GroundY+1.0
	seenTop, seenBottom := false, false

	for _, sm := range snap.Scan {
		if sm.Kind != lidar.HitObstacle {
			continue
		}
		dx := sm.Hit.X - body.X
		if dx < 0 || dx > a.Lookahead {
			continue
		}
		switch {
		case sm.Hit.Y < body.Y:
			if sm.Hit.Y > top {
				top = sm.Hit.Y
			}
			seenTop = true
		default:
			if sm.Hit.Y < bottom {
				bottom = sm.Hit.Y
			}
			seenBottom = true
		}
	}

	switch {
	case seenTop && seenBottom:
		return (top + bottom) / 2
	case seenBottom:
		return bottom - a.Clearance
	case seenTop:
		return top + a.Clearance
	default:
		return cruiseY
	}
}
