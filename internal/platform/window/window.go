// Package window provides the desktop front-end. It draws the world at its
// native 800x538 resolution with ebiten and reads jump input from the
// keyboard and mouse.
package window

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/registry"
)

// Name is the registry name of the window front-end.
const Name = "window"

const title = "Flappy LIDAR"

func init() {
	registry.Register(Name, func() registry.Frontend { return &Frontend{} })
}

// Frontend plays the game in a desktop window.
type Frontend struct{}

// Name returns the registry name.
func (f *Frontend) Name() string { return Name }

// Description returns a one-line summary.
func (f *Frontend) Description() string {
	return "Play in a desktop window with the scan drawn as rays"
}

// Run opens the window and blocks until it is closed, the player quits or ctx
// is cancelled.
func (f *Frontend) Run(ctx context.Context, s *registry.Session) error {
	w, h := WindowSize(s.Scale)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowClosingHandled(true)
	if s.TickRate > 0 {
		ebiten.SetTPS(s.TickRate)
	}

	return ebiten.RunGame(&game{
		ctx:     ctx,
		session: s,
		frame:   s.FrameInterval(),
	})
}

// WindowSize returns the window size for a scale factor. Non-positive scales
// use the world size.
func WindowSize(scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(flappy.ScreenWidth * scale), int(flappy.ScreenHeight * scale)
}

// game implements ebiten.Game over a session.
type game struct {
	ctx     context.Context
	session *registry.Session
	frame   time.Duration
}

// Update steps the session once per ebiten tick.
func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	res := g.session.Advance(readInput(), g.frame)
	if res.Quit {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the latest snapshot.
func (g *game) Draw(screen *ebiten.Image) {
	drawSnapshot(screen, g.session.Game.Snapshot())
}

// Layout returns the world size; ebiten scales it to the window.
func (g *game) Layout(_, _ int) (int, int) {
	return flappy.ScreenWidth, flappy.ScreenHeight
}

// readInput collects this tick's actions from the keyboard, the mouse and the
// window close button.
func readInput() core.InputFrame {
	in := core.NewInputFrame()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		in.Set(core.ActionJump)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyQ) ||
		ebiten.IsWindowBeingClosed() {
		in.Set(core.ActionQuit)
	}
	return in
}
