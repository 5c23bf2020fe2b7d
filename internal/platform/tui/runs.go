package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thxaman/flappy-lidar/internal/storage"
)

// RunsKeyMap defines the key bindings for the recorded runs browser.
type RunsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Quit}}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model listing recorded runs.
type RunsModel struct {
	runs     []storage.Run
	stats    *storage.Stats
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	width    int
	height   int
	quitting bool
}

// NewRunsModel creates a browser over already loaded runs. stats may be nil.
func NewRunsModel(runs []storage.Run, stats *storage.Stats, width, height int) RunsModel {
	h := help.New()
	h.Width = width

	m := RunsModel{
		runs:   runs,
		stats:  stats,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.table.SetRows(RunRows(runs))
	return m
}

// RunColumns are the columns of the runs table.
func RunColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Source", Width: 10},
		{Title: "Score", Width: 7},
		{Title: "Ticks", Width: 8},
		{Title: "Cause", Width: 10},
		{Title: "Clip", Width: 7},
		{Title: "Started", Width: 14},
	}
}

// RunRows formats runs as table rows.
func RunRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		cause := r.Cause
		if !r.Finished {
			cause = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.Source,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Ticks),
			cause,
			r.Clip,
			r.StartedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m *RunsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(RunColumns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(RunRows(m.runs))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats header, the table and the help bar.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render("RECORDED RUNS"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(StatsLine(m.stats)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No runs recorded yet.\nPlay with --record to store one.")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// StatsLine summarises finished runs on one line.
func StatsLine(s *storage.Stats) string {
	if s == nil || s.Runs == 0 {
		return "no finished runs"
	}
	return fmt.Sprintf("%d finished · best %d · avg %.1f · %d ticks · last %s",
		s.Runs, s.BestScore, s.AvgScore, s.TotalTicks, s.LastPlayed.Local().Format("Jan 02 15:04"))
}

// RunRunsBrowser shows the runs browser until the user quits.
func RunRunsBrowser(runs []storage.Run, stats *storage.Stats) error {
	width, height := TerminalSize()
	p := tea.NewProgram(
		NewRunsModel(runs, stats, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
