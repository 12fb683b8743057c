package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/astrotape/internal/config"
	"github.com/vovakirdan/astrotape/internal/storage"
)

// SessionModel manages the flow between the game and the scoreboard. It is
// the top-level model for both local and SSH sessions.
type SessionModel struct {
	store    *storage.Store
	cfg      config.Config
	claimant string
	width    int
	height   int

	game       GameModel
	scoreboard ScoreboardModel
	inScores   bool
	quitting   bool
}

// NewSessionModel creates a session starting in the game.
func NewSessionModel(store *storage.Store, cfg config.Config, claimant string, seed uint32) SessionModel {
	return SessionModel{
		store:    store,
		cfg:      cfg,
		claimant: claimant,
		game:     NewGameModel(store, cfg, claimant, seed),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update routes messages to whichever screen is active.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.inScores {
		return m.updateScoreboard(msg)
	}
	return m.updateGame(msg)
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	if m.game.quitting {
		m.quitting = true
		return m, cmd
	}
	if m.game.WantScores() {
		m.game.wantScores = false
		m.inScores = true
		m.scoreboard = NewScoreboardModel(m.store, m.width, m.height)
		return m, m.scoreboard.Init()
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Ticks from the paused game still arrive; drop them so the finished
	// world does not advance underneath the scoreboard.
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.quitting {
		m.quitting = true
		return m, cmd
	}
	if m.scoreboard.GoingBack() {
		m.inScores = false
		// Resume the tick loop for the game-over screen.
		return m, tickCmd()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return "thanks for flying\n"
	}
	if m.inScores {
		return m.scoreboard.View()
	}
	return m.game.View()
}
