// Package tui is the terminal client: it drives a live game at the fixed
// simulation rate, records the input tape as the player flies, and banks the
// finished tape in storage when the run ends.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/astrotape/internal/config"
	"github.com/vovakirdan/astrotape/internal/driver"
	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/storage"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// maxCatchUpSteps bounds how many simulation frames a single tick may run
// after a stall, matching the headless clock default.
const maxCatchUpSteps = 4

// GameModel is the Bubble Tea model for one interactive run.
type GameModel struct {
	game     *sim.LiveGame
	source   *driver.LiveSource
	tracker  *InputTracker
	clock    *driver.Clock
	renderer *Renderer

	store        *storage.Store // nil when running without a database
	claimant     string
	seed         uint32
	maxFrames    uint32
	interpolate  bool
	showPressure bool

	lastTick time.Time
	width    int
	height   int

	finished   bool
	saved      bool
	saveErr    error
	checksum   uint32
	lastTape   []byte
	wantScores bool
	quitting   bool
}

// NewGameModel creates a model for a fresh run. A nil store disables score
// banking but the game still plays.
func NewGameModel(store *storage.Store, cfg config.Config, claimant string, seed uint32) GameModel {
	maxFrames := cfg.Verify.MaxFrames
	if maxFrames == 0 {
		maxFrames = tape.MaxFramesDefault
	}
	return GameModel{
		game:         sim.NewLiveGame(seed),
		source:       driver.NewLiveSource(),
		tracker:      NewInputTracker(),
		clock:        driver.NewClock(maxCatchUpSteps),
		store:        store,
		claimant:     claimant,
		seed:         seed,
		maxFrames:    maxFrames,
		interpolate:  cfg.UI.Interpolate,
		showPressure: cfg.UI.ShowPressure,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages for the game.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.renderer == nil {
			m.renderer = NewRenderer(msg.Width, msg.Height, m.interpolate, m.showPressure, m.seed)
		} else {
			m.renderer.Resize(msg.Width, msg.Height)
		}
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	if m.finished {
		switch msg.String() {
		case "r":
			return m.restart(), nil
		case "tab":
			m.wantScores = true
			return m, nil
		}
		return m, nil
	}
	m.tracker.HandleKey(msg)
	return m, nil
}

func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := driver.TickInterval
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	m.lastTick = now

	steps := m.clock.Advance(elapsed)
	for i := 0; i < steps && !m.finished; i++ {
		in := m.tracker.Sample()
		m.source.Set(in)
		next, err := m.source.NextInput()
		if err != nil {
			break
		}
		m.game.StepInput(next)

		w := m.game.World()
		if w.IsGameOver() || w.FrameCount() >= m.maxFrames {
			m.finishRun()
		}
	}
	return m, tickCmd()
}

// finishRun seals the recording into a tape and banks it. Called exactly once
// per run.
func (m *GameModel) finishRun() {
	m.finished = true
	if m.saved {
		return
	}
	m.saved = true

	result := m.game.Result()
	data := tape.Serialize(m.seed, m.source.Recorded(), result.FinalScore, result.FinalRngState, []byte(m.claimant))
	m.checksum = tape.Checksum(data[:len(data)-tape.FooterSize])
	m.lastTape = data

	if m.store == nil {
		return
	}
	_, m.saveErr = m.store.SaveRun(storage.RunRecord{
		Claimant:   m.claimant,
		Seed:       m.seed,
		FrameCount: result.FrameCount,
		Score:      result.FinalScore,
		RngState:   result.FinalRngState,
		Checksum:   m.checksum,
		Tape:       data,
	})
}

// restart begins a new run with a fresh wall-clock seed.
func (m GameModel) restart() GameModel {
	next := NewGameModel(m.store, config.Config{
		Verify: config.VerifyConfig{MaxFrames: m.maxFrames},
		UI:     config.UIConfig{Interpolate: m.interpolate, ShowPressure: m.showPressure},
	}, m.claimant, uint32(time.Now().UnixNano()))
	next.width = m.width
	next.height = m.height
	next.renderer = m.renderer
	if next.renderer != nil {
		next.renderer.cosmeticSeed = next.seed
	}
	next.lastTick = m.lastTick
	// Keep the previous run's sealed tape until a new one finishes.
	next.lastTape = m.lastTape
	return next
}

// View renders the current frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.renderer == nil {
		return "waiting for terminal size..."
	}
	snap := m.game.Snapshot()
	return m.renderer.Frame(snap, m.clock.Alpha(), m.overlay(snap))
}

func (m GameModel) overlay(snap *sim.Snapshot) []string {
	if !m.finished {
		return nil
	}
	title := "GAME OVER"
	if !snap.IsGameOver {
		title = "OUT OF TAPE"
	}
	lines := []string{
		title,
		fmt.Sprintf("final score %d  tape %08x", snap.Score, m.checksum),
		"r: new run   tab: scores   q: quit",
	}
	if m.saveErr != nil {
		lines = append(lines, fmt.Sprintf("save failed: %v", m.saveErr))
	}
	return lines
}

// Seed returns the run's gameplay seed.
func (m GameModel) Seed() uint32 {
	return m.seed
}

// WantScores reports that the player asked for the scoreboard; the session
// model reads and clears it.
func (m GameModel) WantScores() bool {
	return m.wantScores
}

// LastTape returns the sealed tape of the most recently finished run, or nil
// if no run has finished.
func (m GameModel) LastTape() []byte {
	return m.lastTape
}

// Run plays a single local session, blocking until the player quits. It
// returns the sealed tape of the last finished run, if any.
func Run(store *storage.Store, cfg config.Config, claimant string, seed uint32) ([]byte, error) {
	model := NewSessionModel(store, cfg, claimant, seed)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if session, ok := final.(SessionModel); ok {
		return session.game.LastTape(), nil
	}
	return nil, nil
}
