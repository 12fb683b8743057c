package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

func TestLiveSourceRecordsInputs(t *testing.T) {
	src := NewLiveSource()

	src.Set(tape.FrameInput{Thrust: true})
	if _, err := src.NextInput(); err != nil {
		t.Fatalf("NextInput failed: %v", err)
	}
	src.Set(tape.FrameInput{Fire: true})
	if _, err := src.NextInput(); err != nil {
		t.Fatalf("NextInput failed: %v", err)
	}
	src.Set(tape.FrameInput{})
	if _, err := src.NextInput(); err != nil {
		t.Fatalf("NextInput failed: %v", err)
	}

	recorded := src.Recorded()
	expected := []byte{0x04, 0x08, 0x00}
	if len(recorded) != len(expected) {
		t.Fatalf("recorded %d frames, expected %d", len(recorded), len(expected))
	}
	for i := range expected {
		if recorded[i] != expected[i] {
			t.Errorf("frame %d = 0x%02x, expected 0x%02x", i, recorded[i], expected[i])
		}
	}
	if src.FrameCount() != 3 {
		t.Errorf("frame count = %d, expected 3", src.FrameCount())
	}
}

func TestTapeSourceExhausts(t *testing.T) {
	src := NewTapeSource([]byte{0x01, 0x08})

	in, err := src.NextInput()
	if err != nil || !in.Left {
		t.Fatalf("first input = %+v, err %v", in, err)
	}
	in, err = src.NextInput()
	if err != nil || !in.Fire {
		t.Fatalf("second input = %+v, err %v", in, err)
	}
	if src.Remaining() != 0 {
		t.Errorf("remaining = %d", src.Remaining())
	}

	if _, err = src.NextInput(); !errors.Is(err, ErrSourceExhausted) {
		t.Fatalf("expected ErrSourceExhausted, got %v", err)
	}
}

func TestClockAccumulatesFixedSteps(t *testing.T) {
	c := NewClock(8)

	if steps := c.Advance(TickInterval / 2); steps != 0 {
		t.Errorf("half a tick produced %d steps", steps)
	}
	if steps := c.Advance(TickInterval / 2); steps != 1 {
		t.Errorf("completing the tick produced %d steps, expected 1", steps)
	}
	if steps := c.Advance(3 * TickInterval); steps != 3 {
		t.Errorf("three ticks produced %d steps", steps)
	}
	if steps := c.Advance(-time.Second); steps != 0 {
		t.Errorf("negative elapsed produced %d steps", steps)
	}
}

func TestClockDiscardsExcessLag(t *testing.T) {
	c := NewClock(4)

	// A long stall yields at most maxSubsteps, and the leftover lag is
	// dropped rather than replayed on the next advance.
	if steps := c.Advance(time.Second); steps != 4 {
		t.Fatalf("stall produced %d steps, expected 4", steps)
	}
	if steps := c.Advance(0); steps != 0 {
		t.Errorf("discarded lag leaked %d steps", steps)
	}
}

func TestRunHeadlessReplaysTape(t *testing.T) {
	inputs := make([]byte, 150)
	for i := range inputs {
		inputs[i] = byte(i*5) & 0x0F
	}

	game := sim.NewLiveGame(606)
	result, err := RunHeadless(context.Background(), game, NewTapeSource(inputs), tape.MaxFramesDefault)
	if err != nil {
		t.Fatalf("RunHeadless failed: %v", err)
	}

	if want := sim.Replay(606, inputs); result != want {
		t.Fatalf("headless result %+v, replay result %+v", result, want)
	}
}

func TestRunHeadlessHonorsFrameLimit(t *testing.T) {
	game := sim.NewLiveGame(606)
	result, err := RunHeadless(context.Background(), game, NewTapeSource(make([]byte, 100)), 40)
	if err != nil {
		t.Fatalf("RunHeadless failed: %v", err)
	}
	if result.FrameCount != 40 {
		t.Errorf("frame count = %d, expected the 40-frame limit", result.FrameCount)
	}
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	game := sim.NewLiveGame(606)
	_, err := RunHeadless(ctx, game, NewTapeSource(make([]byte, 100)), tape.MaxFramesDefault)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLiveSessionRoundTripsThroughTape(t *testing.T) {
	// Drive a live session, serialize it, and confirm the tape verifies to
	// the same outcome via a fresh replay.
	src := NewLiveSource()
	game := sim.NewLiveGame(9999)

	pattern := []tape.FrameInput{
		{Thrust: true},
		{Thrust: true, Left: true},
		{Fire: true},
		{},
	}
	for frame := 0; frame < 240; frame++ {
		src.Set(pattern[frame%len(pattern)])
		in, err := src.NextInput()
		if err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		game.StepInput(in)
	}

	result := game.Result()
	data := tape.Serialize(9999, src.Recorded(), result.FinalScore, result.FinalRngState, []byte("test-pilot"))

	parsed, err := tape.Parse(data, tape.MaxFramesDefault)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := sim.Replay(parsed.Header.Seed, parsed.Inputs); got != result {
		t.Fatalf("replayed tape %+v, live result %+v", got, result)
	}
}
