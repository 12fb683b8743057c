package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/astrotape/internal/tape"
)

// Terminals report key presses but never key releases, so held keys arrive as
// an initial press followed by auto-repeat events. InputTracker bridges that
// gap: each press arms the matching control for a short window of frames, and
// auto-repeat keeps re-arming it while the key stays down.
//
// Fire is the exception. The simulation latches the fire bit and requires a
// released frame before the next shot, so fire is armed for exactly one frame
// per key event instead of a window.
const holdWindowFrames = 8

// InputTracker turns terminal key events into per-frame inputs.
type InputTracker struct {
	left   int32
	right  int32
	thrust int32
	fire   int32
}

// NewInputTracker returns a tracker with all controls released.
func NewInputTracker() *InputTracker {
	return &InputTracker{}
}

// HandleKey consumes a gameplay key event. It returns false for keys that are
// not game controls so the caller can route them elsewhere.
func (t *InputTracker) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "a":
		t.left = holdWindowFrames
	case "right", "d":
		t.right = holdWindowFrames
	case "up", "w":
		t.thrust = holdWindowFrames
	case " ":
		t.fire = 1
	default:
		return false
	}
	return true
}

// Sample returns the input for the next simulation frame and advances the
// hold windows by one frame.
func (t *InputTracker) Sample() tape.FrameInput {
	in := tape.FrameInput{
		Left:   t.left > 0,
		Right:  t.right > 0,
		Thrust: t.thrust > 0,
		Fire:   t.fire > 0,
	}
	t.decay(&t.left)
	t.decay(&t.right)
	t.decay(&t.thrust)
	t.decay(&t.fire)
	return in
}

// Reset releases every control, used when a new run starts.
func (t *InputTracker) Reset() {
	*t = InputTracker{}
}

func (t *InputTracker) decay(v *int32) {
	if *v > 0 {
		*v--
	}
}
