package tui

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/thxaman/flappy-lidar/internal/registry"
)

// Name is the registry name of the terminal front-end.
const Name = "tui"

func init() {
	registry.Register(Name, func() registry.Frontend { return &Frontend{} })
}

// Frontend plays the game inside the terminal.
type Frontend struct{}

// Name returns the registry name.
func (f *Frontend) Name() string { return Name }

// Description returns a one-line summary.
func (f *Frontend) Description() string {
	return "Play in the terminal with coloured cells and a live scan overlay"
}

// Run starts the Bubble Tea program and blocks until the player quits or ctx
// is cancelled.
func (f *Frontend) Run(ctx context.Context, s *registry.Session) error {
	width, height := TerminalSize()
	model := NewModel(s, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// TerminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func TerminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}
