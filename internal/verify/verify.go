// Package verify turns a tape into a verdict: parse, strict replay, and
// cross-check the claimed footer against the recomputed outcome. The Journal
// it returns is the public commitment an attestation layer publishes.
package verify

import (
	"fmt"

	"github.com/vovakirdan/astrotape/internal/sim"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// RulesDigestV1 identifies the rule set tapes are verified against. A tape
// verified under one digest must never be presented as valid under another.
const RulesDigestV1 uint32 = 0x41535433 // "AST3"

// Journal is the verified summary of a run.
type Journal struct {
	Seed          uint32 `json:"seed"`
	FrameCount    uint32 `json:"frame_count"`
	FinalScore    uint32 `json:"final_score"`
	FinalRngState uint32 `json:"final_rng_state"`
	TapeChecksum  uint32 `json:"tape_checksum"`
	RulesDigest   uint32 `json:"rules_digest"`
}

// MismatchError reports a footer field that disagrees with the replay.
type MismatchError struct {
	Field    string // "frame-count", "score" or "rng"
	Claimed  uint32
	Computed uint32
}

func (e *MismatchError) Error() string {
	switch e.Field {
	case "rng":
		return fmt.Sprintf("verify: rng mismatch: claimed=0x%08x, computed=0x%08x", e.Claimed, e.Computed)
	default:
		return fmt.Sprintf("verify: %s mismatch: claimed=%d, computed=%d", e.Field, e.Claimed, e.Computed)
	}
}

// Tape parses, strictly replays, and cross-checks a tape. maxFrames of zero
// selects the default limit.
func Tape(bytes []byte, maxFrames uint32) (*Journal, error) {
	if maxFrames == 0 {
		maxFrames = tape.MaxFramesDefault
	}

	parsed, err := tape.Parse(bytes, maxFrames)
	if err != nil {
		return nil, err
	}

	result, err := sim.ReplayStrict(parsed.Header.Seed, parsed.Inputs)
	if err != nil {
		return nil, err
	}

	if result.FrameCount != parsed.Header.FrameCount {
		return nil, &MismatchError{Field: "frame-count", Claimed: parsed.Header.FrameCount, Computed: result.FrameCount}
	}
	if result.FinalScore != parsed.Footer.FinalScore {
		return nil, &MismatchError{Field: "score", Claimed: parsed.Footer.FinalScore, Computed: result.FinalScore}
	}
	if result.FinalRngState != parsed.Footer.FinalRngState {
		return nil, &MismatchError{Field: "rng", Claimed: parsed.Footer.FinalRngState, Computed: result.FinalRngState}
	}

	return &Journal{
		Seed:          parsed.Header.Seed,
		FrameCount:    parsed.Header.FrameCount,
		FinalScore:    result.FinalScore,
		FinalRngState: result.FinalRngState,
		TapeChecksum:  parsed.Footer.Checksum,
		RulesDigest:   RulesDigestV1,
	}, nil
}
