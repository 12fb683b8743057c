// Package tape implements the portable run-recording format: a 72-byte
// little-endian header, one input byte per frame, and a 12-byte footer whose
// CRC-32 covers everything before it. A tape plus the rules digest is the
// complete claim "this seed and these inputs produce this score".
package tape

import (
	"encoding/binary"
	"hash/crc32"
	"unicode/utf8"
)

const (
	// Magic is "ZKTP" little-endian.
	Magic uint32 = 0x5A4B5450

	// Version is the only header version this codec reads and writes.
	Version uint8 = 1

	// RulesTag identifies the rule set the tape was recorded under. Zero is
	// accepted on read as a legacy tag.
	RulesTag uint8 = 1

	// ClaimantSize is the fixed width of the zero-padded claimant field.
	ClaimantSize = 56

	// HeaderSize and FooterSize bound every tape: total length is
	// HeaderSize + frameCount + FooterSize.
	HeaderSize = 72
	FooterSize = 12

	// MaxFramesDefault caps replay length when the caller does not set an
	// explicit limit: five minutes at 60 steps per second.
	MaxFramesDefault uint32 = 18000
)

// Header is the parsed fixed-size tape prefix.
type Header struct {
	Magic      uint32
	Version    uint8
	RulesTag   uint8
	Seed       uint32
	FrameCount uint32
	Claimant   []byte
}

// Footer carries the claimed outcome and the checksum over header + inputs.
type Footer struct {
	FinalScore    uint32
	FinalRngState uint32
	Checksum      uint32
}

// Tape is a parsed view over a validated byte slice. Inputs aliases the
// original bytes; callers must not mutate it.
type Tape struct {
	Header Header
	Inputs []byte
	Footer Footer
}

// Checksum is the tape CRC-32 (ISO 3309, the same polynomial as hash/crc32's
// IEEE table).
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Parse validates bytes as a complete tape. Every reject path returns a typed
// error so callers can report exactly what was wrong with a submitted tape.
// The checksum pass and the reserved-input-bit scan share one walk over the
// buffer.
func Parse(bytes []byte, maxFrames uint32) (*Tape, error) {
	minLen := HeaderSize + FooterSize
	if len(bytes) < minLen {
		return nil, &TooShortError{Actual: len(bytes), Min: minLen}
	}

	magic := binary.LittleEndian.Uint32(bytes[0:])
	if magic != Magic {
		return nil, &BadMagicError{Found: magic}
	}

	version := bytes[4]
	if version != Version {
		return nil, &UnsupportedVersionError{Found: version}
	}

	rulesTag := bytes[5]
	if rulesTag != 0 && rulesTag != RulesTag {
		return nil, &UnknownRulesTagError{Found: rulesTag}
	}
	if bytes[6] != 0 || bytes[7] != 0 {
		return nil, ErrHeaderReservedNonZero
	}

	seed := binary.LittleEndian.Uint32(bytes[8:])
	frameCount := binary.LittleEndian.Uint32(bytes[12:])

	// Claimant: 56 bytes at offset 16, trailing zeros trimmed.
	claimantRaw := bytes[16 : 16+ClaimantSize]
	claimantEnd := 0
	for i := ClaimantSize - 1; i >= 0; i-- {
		if claimantRaw[i] != 0 {
			claimantEnd = i + 1
			break
		}
	}
	claimant := make([]byte, claimantEnd)
	copy(claimant, claimantRaw[:claimantEnd])
	if !utf8.Valid(claimant) {
		return nil, ErrInvalidClaimantUTF8
	}

	if frameCount == 0 || frameCount > maxFrames {
		return nil, &FrameCountRangeError{FrameCount: frameCount, MaxFrames: maxFrames}
	}

	expectedLen := HeaderSize + int(frameCount) + FooterSize
	if len(bytes) != expectedLen {
		return nil, &LengthMismatchError{Expected: expectedLen, Actual: len(bytes)}
	}

	inputsEnd := HeaderSize + int(frameCount)
	inputs := bytes[HeaderSize:inputsEnd]

	finalScore := binary.LittleEndian.Uint32(bytes[inputsEnd:])
	finalRngState := binary.LittleEndian.Uint32(bytes[inputsEnd+4:])
	checksum := binary.LittleEndian.Uint32(bytes[inputsEnd+8:])

	for i, b := range inputs {
		if b&InputReservedMask != 0 {
			return nil, &ReservedInputBitsError{Frame: uint32(i), Byte: b}
		}
	}
	computed := Checksum(bytes[:inputsEnd])
	if checksum != computed {
		return nil, &CrcMismatchError{Stored: checksum, Computed: computed}
	}

	return &Tape{
		Header: Header{
			Magic:      magic,
			Version:    version,
			RulesTag:   rulesTag,
			Seed:       seed,
			FrameCount: frameCount,
			Claimant:   claimant,
		},
		Inputs: inputs,
		Footer: Footer{
			FinalScore:    finalScore,
			FinalRngState: finalRngState,
			Checksum:      checksum,
		},
	}, nil
}

// Serialize builds the canonical byte encoding for a finished run. A claimant
// longer than 56 bytes is truncated; shorter is zero-padded.
func Serialize(seed uint32, inputs []byte, finalScore, finalRngState uint32, claimant []byte) []byte {
	totalLen := HeaderSize + len(inputs) + FooterSize
	data := make([]byte, totalLen)

	binary.LittleEndian.PutUint32(data[0:], Magic)
	data[4] = Version
	data[5] = RulesTag
	binary.LittleEndian.PutUint32(data[8:], seed)
	binary.LittleEndian.PutUint32(data[12:], uint32(len(inputs)))

	claimantLen := len(claimant)
	if claimantLen > ClaimantSize {
		claimantLen = ClaimantSize
	}
	copy(data[16:16+claimantLen], claimant[:claimantLen])

	bodyEnd := HeaderSize + len(inputs)
	copy(data[HeaderSize:bodyEnd], inputs)

	binary.LittleEndian.PutUint32(data[bodyEnd:], finalScore)
	binary.LittleEndian.PutUint32(data[bodyEnd+4:], finalRngState)
	binary.LittleEndian.PutUint32(data[bodyEnd+8:], Checksum(data[:bodyEnd]))

	return data
}
