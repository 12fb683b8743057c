// Package driver feeds frame inputs into a simulation at a fixed cadence.
// Both live play and tape playback run through the same InputSource
// abstraction, so the stepping code never knows which one it is driving.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// TickRate is the fixed simulation rate in frames per second.
const TickRate = 60

// TickInterval is the wall-clock duration of one simulation frame.
const TickInterval = time.Second / TickRate

// ErrSourceExhausted is returned by TapeSource once every recorded frame
// has been consumed.
var ErrSourceExhausted = errors.New("driver: input source exhausted")

// InputSource yields one FrameInput per simulation frame.
type InputSource interface {
	// NextInput returns the input for the next frame. It returns
	// ErrSourceExhausted when no more frames are available.
	NextInput() (tape.FrameInput, error)
}

// LiveSource records the inputs it hands out, so a finished session can be
// serialized into a tape. The held input is whatever the UI last set; the
// simulation's own edge detection turns a held fire button into discrete
// shots, so the source just reports the current state every frame.
type LiveSource struct {
	current  tape.FrameInput
	recorded []byte
}

// NewLiveSource returns a source with no input held and an empty recording.
func NewLiveSource() *LiveSource {
	return &LiveSource{recorded: make([]byte, 0, 4096)}
}

// Set replaces the held input state.
func (s *LiveSource) Set(in tape.FrameInput) {
	s.current = in
}

// NextInput returns the held input and appends it to the recording.
// It never exhausts.
func (s *LiveSource) NextInput() (tape.FrameInput, error) {
	s.recorded = append(s.recorded, tape.EncodeInputByte(s.current))
	return s.current, nil
}

// Recorded returns the encoded input bytes captured so far. The returned
// slice aliases the recording; callers serializing a tape should do so
// before stepping further.
func (s *LiveSource) Recorded() []byte {
	return s.recorded
}

// FrameCount reports how many frames have been recorded.
func (s *LiveSource) FrameCount() uint32 {
	return uint32(len(s.recorded))
}

// TapeSource replays the input bytes of a parsed tape.
type TapeSource struct {
	inputs []byte
	pos    int
}

// NewTapeSource wraps the given encoded input bytes.
func NewTapeSource(inputs []byte) *TapeSource {
	return &TapeSource{inputs: inputs}
}

// NextInput decodes and returns the next recorded frame.
func (s *TapeSource) NextInput() (tape.FrameInput, error) {
	if s.pos >= len(s.inputs) {
		return tape.FrameInput{}, ErrSourceExhausted
	}
	in := tape.DecodeInputByte(s.inputs[s.pos])
	s.pos++
	return in, nil
}

// Remaining reports how many frames are left to play.
func (s *TapeSource) Remaining() int {
	return len(s.inputs) - s.pos
}

// Clock converts irregular wall-clock deltas into a whole number of fixed
// simulation steps. Rendering may run at any rate; the simulation only ever
// advances in TickInterval quanta.
type Clock struct {
	accumulator time.Duration
	interval    time.Duration
	maxSubsteps int
}

// NewClock returns a clock stepping at the standard rate. maxSubsteps bounds
// how far the simulation catches up after a stall; excess lag is discarded
// rather than replayed, which keeps a backgrounded client from fast-forwarding.
func NewClock(maxSubsteps int) *Clock {
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}
	return &Clock{interval: TickInterval, maxSubsteps: maxSubsteps}
}

// Advance accounts for elapsed wall time and returns how many simulation
// steps to run now.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	c.accumulator += elapsed
	steps := int(c.accumulator / c.interval)
	if steps > c.maxSubsteps {
		steps = c.maxSubsteps
		// Drop the lag we are not going to simulate.
		c.accumulator = 0
		return steps
	}
	c.accumulator -= time.Duration(steps) * c.interval
	return steps
}

// Alpha reports how far into the next simulation step the accumulated time
// reaches, as a fraction in [0, 1). Renderers use it to interpolate between
// the previous and current entity poses.
func (c *Clock) Alpha() float64 {
	return float64(c.accumulator) / float64(c.interval)
}

// RunHeadless drives a game from a source as fast as possible, with no
// pacing, until the source is exhausted, the frame limit is reached, or the
// context is cancelled. It is the engine behind tape playback and benchmarks.
func RunHeadless(ctx context.Context, game *sim.LiveGame, source InputSource, maxFrames uint32) (sim.Result, error) {
	for game.World().FrameCount() < maxFrames {
		if err := ctx.Err(); err != nil {
			return game.Result(), err
		}
		in, err := source.NextInput()
		if errors.Is(err, ErrSourceExhausted) {
			break
		}
		if err != nil {
			return game.Result(), err
		}
		game.StepInput(in)
	}
	return game.Result(), nil
}
