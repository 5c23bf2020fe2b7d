package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thxaman/flappy-lidar/internal/core"
	"github.com/thxaman/flappy-lidar/internal/registry"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model that plays one session.
type Model struct {
	session    *registry.Session
	screen     *core.Screen
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	width      int
	height     int
	last       time.Time // Time of the previous tick; zero before the first
	quitting   bool
}

// NewModel creates a model drawing into a width x height terminal.
func NewModel(s *registry.Session, width, height int) Model {
	h := help.New()
	h.Width = width

	return Model{
		session:    s,
		screen:     core.NewScreen(width, height),
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		width:      width,
		height:     height,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.session.FrameInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey collects actions for the next tick. Quit is applied immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		quit := core.NewInputFrame()
		quit.Set(core.ActionQuit)
		m.session.Advance(quit, 0)
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick advances the session by the wall time since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := m.session.FrameInterval()
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last)
	}
	m.last = now

	res := m.session.Advance(m.inputFrame, elapsed)
	m.inputFrame.Clear()
	if res.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(m.session.FrameInterval())
}

// saveScreenshot writes the current frame as plain text under
// ~/.flappy/screenshots.
func (m Model) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	m.session.Game.Render(m.screen)

	dir := filepath.Join(home, ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.session.Log().Warn("screenshot failed", "err", err)
		return
	}

	filename := fmt.Sprintf("flappy_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.session.Log().Warn("screenshot failed", "err", err)
		return
	}
	m.session.Log().Info("screenshot saved", "path", path)
}

// View renders the game above a one-line help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	helpView := helpStyle.Render(m.help.View(m.keys))
	rows := max(m.height-lipgloss.Height(helpView), 1)
	m.screen.Resize(max(m.width, 1), rows)

	m.session.Game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpView
}
