package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/astrotape/internal/driver"
)

// TickMsg is sent on each render tick. It carries the wall-clock time so the
// model can feed real elapsed durations into the simulation clock.
type TickMsg time.Time

// tickCmd schedules the next tick at the fixed simulation rate.
func tickCmd() tea.Cmd {
	return tea.Tick(driver.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
