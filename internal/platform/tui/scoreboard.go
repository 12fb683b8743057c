package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/astrotape/internal/storage"
)

// maxScoreRows bounds how many runs the scoreboard loads.
const maxScoreRows = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the verified-run scoreboard.
type ScoreboardModel struct {
	store     *storage.Store
	runs      []storage.RunRecord
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over the stored runs.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.loadRuns()
	m.table = m.createTable()
	return m
}

func (m *ScoreboardModel) loadRuns() {
	if m.store == nil {
		return
	}
	m.runs, m.loadErr = m.store.TopRuns(maxScoreRows)
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Pilot", Width: 18},
		{Title: "Score", Width: 8},
		{Title: "Frames", Width: 7},
		{Title: "Tape", Width: 9},
		{Title: "Date", Width: 16},
	}

	rows := make([]table.Row, 0, len(m.runs))
	for i, run := range m.runs {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			run.Claimant,
			fmt.Sprintf("%d", run.Score),
			fmt.Sprintf("%d", run.FrameCount),
			fmt.Sprintf("%08x", run.Checksum),
			run.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	tableHeight := m.height - 6
	if tableHeight < 3 {
		tableHeight = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return t
}

// Init initializes the scoreboard.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("TOP RUNS")
	body := m.table.View()
	if m.loadErr != nil {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).
			Render(fmt.Sprintf("could not load runs: %v", m.loadErr))
	} else if len(m.runs) == 0 {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
			Render("no runs recorded yet, finish a game first")
	}

	view := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", m.help.View(m.keys))
	return lipgloss.NewStyle().Margin(1, 2).Render(view)
}

// GoingBack reports that the player asked to return to the game; the session
// model reads and clears it.
func (m ScoreboardModel) GoingBack() bool {
	return m.goingBack
}
