// Package headless flies sessions without a display, at a fixed timestep and
// as fast as the machine allows. A pilot must supply every input.
package headless

import (
	"context"
	"errors"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/registry"
)

// Name is the registry name of the headless front-end.
const Name = "headless"

// ErrNoPilot is returned when a session has nobody to fly it.
var ErrNoPilot = errors.New("headless: session has no pilot")

func init() {
	registry.Register(Name, func() registry.Frontend { return &Frontend{} })
}

// Episode summarises one flown round.
type Episode struct {
	Round  int
	Score  int
	Ticks  int
	Cause  flappy.Cause
	CutOff bool // Stopped by the tick limit while still alive
}

// Fly plays one round with the session's pilot, starting it if needed. It
// returns when the round ends, after maxTicks ticks (no limit if maxTicks <= 0)
// or with ctx's error once ctx is cancelled. A cut-off round is left playing.
func Fly(ctx context.Context, s *registry.Session, maxTicks int) (Episode, error) {
	if s.Pilot == nil {
		return Episode{}, ErrNoPilot
	}

	none := core.NewInputFrame()
	if s.Game.State() != flappy.Playing {
		if res := s.Advance(none, flappy.TickDuration); !res.Started {
			return Episode{}, errors.New("headless: pilot did not start a round")
		}
	}

	g := s.Game
	for g.State() == flappy.Playing {
		if maxTicks > 0 && g.Ticks() >= maxTicks {
			return episode(g, true), nil
		}
		if err := ctx.Err(); err != nil {
			return episode(g, false), err
		}
		s.Advance(none, flappy.TickDuration)
	}
	return episode(g, false), nil
}

func episode(g *flappy.Game, cutOff bool) Episode {
	return Episode{
		Round:  g.Round(),
		Score:  g.Score(),
		Ticks:  g.Ticks(),
		Cause:  g.Cause(),
		CutOff: cutOff,
	}
}

// Frontend flies round after round until ctx is cancelled or Rounds rounds
// have ended.
type Frontend struct {
	Rounds int // Zero means no limit
}

// Name returns the registry name.
func (f *Frontend) Name() string { return Name }

// Description returns a one-line summary.
func (f *Frontend) Description() string {
	return "Fly with the autopilot and no display, logging each round"
}

// Run flies the session. Cancellation is a normal way to stop.
func (f *Frontend) Run(ctx context.Context, s *registry.Session) error {
	for n := 0; f.Rounds == 0 || n < f.Rounds; n++ {
		ep, err := Fly(ctx, s, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.Log().Debug("episode", "round", ep.Round, "score", ep.Score, "ticks", ep.Ticks, "cause", ep.Cause)
	}
	return nil
}
