package headless

import (
	"context"
	"errors"
	"testing"

	"github.com/thxaman/flappy-lidar/internal/agent"
	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
	"github.com/thxaman/flappy-lidar/internal/registry"
)

// dropPilot starts rounds and never jumps.
type dropPilot struct{}

func (dropPilot) Act(snap flappy.Snapshot) core.InputFrame {
	in := core.NewInputFrame()
	if snap.State != flappy.Playing {
		in.Set(core.ActionJump)
	}
	return in
}

func newSession(p registry.Pilot) *registry.Session {
	return &registry.Session{
		Game: flappy.New(flappy.Options{
			Seed:    3,
			Scanner: flappy.DefaultScanner(lidar.ClipLegacy),
		}),
		TickRate: 60,
		Pilot:    p,
	}
}

func TestFlyWithoutPilot(t *testing.T) {
	s := newSession(nil)
	if _, err := Fly(context.Background(), s, 0); !errors.Is(err, ErrNoPilot) {
		t.Errorf("Fly() error = %v, expected ErrNoPilot", err)
	}
}

func TestFlyUntilGround(t *testing.T) {
	s := newSession(dropPilot{})

	ep, err := Fly(context.Background(), s, 0)
	if err != nil {
		t.Fatalf("Fly() error = %v", err)
	}
	if ep.Cause != flappy.CauseGround {
		t.Errorf("Cause = %v, expected ground", ep.Cause)
	}
	if ep.CutOff {
		t.Error("a round that ended should not be cut off")
	}
	if ep.Round != 1 || ep.Ticks == 0 {
		t.Errorf("Episode = %+v, expected round 1 with ticks", ep)
	}
	if s.Game.State() != flappy.GameOver {
		t.Errorf("State = %v, expected game over", s.Game.State())
	}
}

func TestFlyCutOff(t *testing.T) {
	s := newSession(agent.New(true))

	ep, err := Fly(context.Background(), s, 20)
	if err != nil {
		t.Fatalf("Fly() error = %v", err)
	}
	if !ep.CutOff || ep.Ticks != 20 {
		t.Errorf("Episode = %+v, expected cut off at 20 ticks", ep)
	}
	if s.Game.State() != flappy.Playing {
		t.Error("a cut-off round should still be playing")
	}
}

func TestFlyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fly(ctx, newSession(agent.New(true)), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fly() error = %v, expected context.Canceled", err)
	}
}

func TestFrontendRounds(t *testing.T) {
	s := newSession(dropPilot{})
	f := &Frontend{Rounds: 3}

	if err := f.Run(context.Background(), s); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Game.Round() != 3 {
		t.Errorf("Round() = %d, expected 3", s.Game.Round())
	}
}

func TestFrontendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := (&Frontend{}).Run(ctx, newSession(agent.New(true))); err != nil {
		t.Errorf("Run() error = %v, expected nil on cancel", err)
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(Name) {
		t.Errorf("%q should be registered", Name)
	}
}
