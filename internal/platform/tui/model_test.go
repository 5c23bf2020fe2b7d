package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/flappy"
	"github.com/thxaman/flappy-lidar/internal/lidar"
	"github.com/thxaman/flappy-lidar/internal/registry"
)

func newSession() *registry.Session {
	return &registry.Session{
		Game: flappy.New(flappy.Options{
			Seed:    1,
			Scanner: flappy.DefaultScanner(lidar.ClipLegacy),
		}),
		TickRate: 60,
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestModelStartsRoundOnJump(t *testing.T) {
	s := newSession()
	m := NewModel(s, 80, 24)

	if m.Init() == nil {
		t.Fatal("Init() should start the tick loop")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if s.Game.State() != flappy.Start {
		t.Fatalf("state before tick = %v, expected start", s.Game.State())
	}

	now := time.Now()
	m, cmd := update(t, m, TickMsg(now))
	if s.Game.State() != flappy.Playing {
		t.Errorf("state after tick = %v, expected playing", s.Game.State())
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.inputFrame.Has(core.ActionJump) {
		t.Error("input should be cleared after a tick")
	}

	// A later tick advances by the wall time between ticks.
	before := s.Game.Ticks()
	update(t, m, TickMsg(now.Add(50*time.Millisecond)))
	if got := s.Game.Ticks() - before; got != 3 {
		t.Errorf("ticks for 50ms = %d, expected 3", got)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(newSession(), 80, 24)

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("quit command returned %T, expected tea.QuitMsg", cmd())
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelView(t *testing.T) {
	m := NewModel(newSession(), 80, 24)

	view := m.View()
	if !strings.Contains(view, "FLAPPY LIDAR") {
		t.Error("start view should show the title")
	}
	if !strings.Contains(view, "quit") {
		t.Error("view should end with the help bar")
	}
	if lines := strings.Count(view, "\n") + 1; lines != 24 {
		t.Errorf("view has %d lines, expected 24", lines)
	}
}

func TestModelResize(t *testing.T) {
	m := NewModel(newSession(), 80, 24)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m.View()
	if m.screen.Width() != 120 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 120x39", m.screen.Width(), m.screen.Height())
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := NewModel(newSession(), 80, 24)
	m, _ = update(t, m, runeKey('?'))
	if !m.help.ShowAll {
		t.Error("? should expand the help bar")
	}
	if !strings.Contains(m.View(), "screenshot") {
		t.Error("full help should list the screenshot key")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawTextColor(2, 0, "cd", core.ColorGreen)
	s.SetColor(0, 1, 'x', core.Color(99))

	out := RenderScreen(s)
	for _, want := range []string{"ab", "cd", "x"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() missing %q", want)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 2 {
		t.Errorf("RenderScreen() has %d lines, expected 2", lines)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(core.ColorBrightRed); got != "#ff0000" {
		t.Errorf("hexColor(BrightRed) = %q, expected #ff0000", got)
	}
	if got := hexColor(core.ColorOrange); got != "#de9650" {
		t.Errorf("hexColor(Orange) = %q, expected #de9650", got)
	}
}
