package tape

import (
	"errors"
	"fmt"
)

// ErrHeaderReservedNonZero is returned when header bytes 6..7 are set.
var ErrHeaderReservedNonZero = errors.New("tape: header reserved bytes are non-zero")

// ErrInvalidClaimantUTF8 is returned when the claimant field does not decode
// as UTF-8 text.
var ErrInvalidClaimantUTF8 = errors.New("tape: claimant address is not valid UTF-8")

// TooShortError reports a byte slice smaller than header plus footer.
type TooShortError struct {
	Actual int
	Min    int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("tape: too short: got %d bytes, need at least %d", e.Actual, e.Min)
}

// BadMagicError reports an unrecognized magic word.
type BadMagicError struct {
	Found uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("tape: invalid magic: 0x%08x", e.Found)
}

// UnsupportedVersionError reports a version byte this codec cannot read.
type UnsupportedVersionError struct {
	Found uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("tape: unsupported version: %d", e.Found)
}

// UnknownRulesTagError reports a rules tag that is neither current nor the
// legacy zero value.
type UnknownRulesTagError struct {
	Found uint8
}

func (e *UnknownRulesTagError) Error() string {
	return fmt.Sprintf("tape: unknown rules tag: %d", e.Found)
}

// FrameCountRangeError reports a declared frame count of zero or above the
// verification limit.
type FrameCountRangeError struct {
	FrameCount uint32
	MaxFrames  uint32
}

func (e *FrameCountRangeError) Error() string {
	return fmt.Sprintf("tape: frame count out of range: %d (allowed 1..=%d)", e.FrameCount, e.MaxFrames)
}

// LengthMismatchError reports a byte slice whose length disagrees with the
// declared frame count.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("tape: length mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

// ReservedInputBitsError reports an input byte with any of bits 4..7 set.
type ReservedInputBitsError struct {
	Frame uint32
	Byte  uint8
}

func (e *ReservedInputBitsError) Error() string {
	return fmt.Sprintf("tape: input byte reserved bits set at frame %d: 0x%02x", e.Frame, e.Byte)
}

// CrcMismatchError reports a stored checksum that disagrees with the bytes.
type CrcMismatchError struct {
	Stored   uint32
	Computed uint32
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("tape: crc mismatch: stored=0x%08x, computed=0x%08x", e.Stored, e.Computed)
}
