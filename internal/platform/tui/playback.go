package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/astrotape/internal/config"
	"github.com/vovakirdan/astrotape/internal/driver"
	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// PlaybackModel replays a parsed tape at the original pace, like watching the
// run over the recorder's shoulder. The world is stepped from the tape's
// inputs; the keyboard only controls the playback itself.
type PlaybackModel struct {
	game     *sim.LiveGame
	source   *driver.TapeSource
	clock    *driver.Clock
	renderer *Renderer
	tape     *tape.Tape

	interpolate  bool
	showPressure bool

	lastTick time.Time
	paused   bool
	done     bool
	quitting bool
}

// NewPlaybackModel creates a playback over a parsed tape.
func NewPlaybackModel(t *tape.Tape, cfg config.Config) PlaybackModel {
	return PlaybackModel{
		game:         sim.NewLiveGame(t.Header.Seed),
		source:       driver.NewTapeSource(t.Inputs),
		clock:        driver.NewClock(maxCatchUpSteps),
		tape:         t,
		interpolate:  cfg.UI.Interpolate,
		showPressure: cfg.UI.ShowPressure,
	}
}

// Init starts the tick loop.
func (m PlaybackModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages for the playback.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		}
		return m, nil
	case tea.WindowSizeMsg:
		if m.renderer == nil {
			m.renderer = NewRenderer(msg.Width, msg.Height, m.interpolate, m.showPressure, m.tape.Header.Seed)
		} else {
			m.renderer.Resize(msg.Width, msg.Height)
		}
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m PlaybackModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := driver.TickInterval
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	m.lastTick = now

	if m.paused || m.done {
		return m, tickCmd()
	}

	steps := m.clock.Advance(elapsed)
	for i := 0; i < steps && !m.done; i++ {
		in, err := m.source.NextInput()
		if err != nil {
			m.done = true
			break
		}
		m.game.StepInput(in)
	}
	return m, tickCmd()
}

// View renders the current playback frame.
func (m PlaybackModel) View() string {
	if m.quitting {
		return ""
	}
	if m.renderer == nil {
		return "waiting for terminal size..."
	}
	snap := m.game.Snapshot()
	return m.renderer.Frame(snap, m.clock.Alpha(), m.overlay(snap))
}

func (m PlaybackModel) overlay(snap *sim.Snapshot) []string {
	switch {
	case m.done:
		return []string{
			"END OF TAPE",
			fmt.Sprintf("score %d over %d frames", snap.Score, snap.FrameCount),
			"q: quit",
		}
	case m.paused:
		return []string{"PAUSED", "space: resume   q: quit"}
	default:
		return nil
	}
}

// Watch replays a tape inside the terminal, blocking until the viewer quits.
func Watch(t *tape.Tape, cfg config.Config) error {
	p := tea.NewProgram(NewPlaybackModel(t, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
