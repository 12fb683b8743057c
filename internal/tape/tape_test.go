package tape

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func buildTape(t *testing.T, inputs []byte, claimant []byte) []byte {
	t.Helper()
	return Serialize(42, inputs, 1200, 0xA1B2C3D4, claimant)
}

func TestChecksumVector(t *testing.T) {
	// ISO 3309 / IEEE reference vector.
	if got := Checksum([]byte("123456789")); got != 0xCBF43926 {
		t.Fatalf("Checksum(\"123456789\") = 0x%08x, expected 0xCBF43926", got)
	}
}

func TestEncodeDecodeInputByte(t *testing.T) {
	tests := []struct {
		name string
		in   FrameInput
		b    uint8
	}{
		{name: "none", in: FrameInput{}, b: 0x00},
		{name: "left", in: FrameInput{Left: true}, b: 0x01},
		{name: "right", in: FrameInput{Right: true}, b: 0x02},
		{name: "thrust", in: FrameInput{Thrust: true}, b: 0x04},
		{name: "fire", in: FrameInput{Fire: true}, b: 0x08},
		{name: "all", in: FrameInput{Left: true, Right: true, Thrust: true, Fire: true}, b: 0x0F},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EncodeInputByte(tc.in); got != tc.b {
				t.Errorf("EncodeInputByte = 0x%02x, expected 0x%02x", got, tc.b)
			}
			if got := DecodeInputByte(tc.b); got != tc.in {
				t.Errorf("DecodeInputByte(0x%02x) = %+v, expected %+v", tc.b, got, tc.in)
			}
		})
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	inputs := []byte{0x00, 0x01, 0x08, 0x0F, 0x04}
	claimant := []byte("GABC123PLAYER")
	data := buildTape(t, inputs, claimant)

	if len(data) != HeaderSize+len(inputs)+FooterSize {
		t.Fatalf("serialized length = %d", len(data))
	}

	parsed, err := Parse(data, MaxFramesDefault)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.Header.Seed != 42 {
		t.Errorf("seed = %d, expected 42", parsed.Header.Seed)
	}
	if parsed.Header.FrameCount != uint32(len(inputs)) {
		t.Errorf("frame count = %d, expected %d", parsed.Header.FrameCount, len(inputs))
	}
	if parsed.Header.Version != Version || parsed.Header.RulesTag != RulesTag {
		t.Errorf("version/rules = %d/%d", parsed.Header.Version, parsed.Header.RulesTag)
	}
	if !bytes.Equal(parsed.Header.Claimant, claimant) {
		t.Errorf("claimant = %q, expected %q", parsed.Header.Claimant, claimant)
	}
	if !bytes.Equal(parsed.Inputs, inputs) {
		t.Errorf("inputs = %v, expected %v", parsed.Inputs, inputs)
	}
	if parsed.Footer.FinalScore != 1200 || parsed.Footer.FinalRngState != 0xA1B2C3D4 {
		t.Errorf("footer = %+v", parsed.Footer)
	}
}

func TestParseRejectsTooShort(t *testing.T) {
	var tooShort *TooShortError
	_, err := Parse(make([]byte, HeaderSize+FooterSize-1), MaxFramesDefault)
	if !errors.As(err, &tooShort) {
		t.Fatalf("expected TooShortError, got %v", err)
	}
	if tooShort.Min != HeaderSize+FooterSize {
		t.Errorf("Min = %d", tooShort.Min)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := buildTape(t, []byte{0x01}, nil)
	data[0] ^= 0xFF

	var badMagic *BadMagicError
	if _, err := Parse(data, MaxFramesDefault); !errors.As(err, &badMagic) {
		t.Fatalf("expected BadMagicError, got %v", err)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	data := buildTape(t, []byte{0x01}, nil)
	data[4] = 99

	var badVersion *UnsupportedVersionError
	_, err := Parse(data, MaxFramesDefault)
	if !errors.As(err, &badVersion) {
		t.Fatalf("expected UnsupportedVersionError, got %v", err)
	}
	if badVersion.Found != 99 {
		t.Errorf("Found = %d", badVersion.Found)
	}
}

func TestParseRulesTag(t *testing.T) {
	// Legacy zero tag parses; anything else unknown is rejected.
	data := buildTape(t, []byte{0x01}, nil)
	data[5] = 0
	fixupChecksum(data)
	if _, err := Parse(data, MaxFramesDefault); err != nil {
		t.Fatalf("legacy tag rejected: %v", err)
	}

	data[5] = 7
	fixupChecksum(data)
	var unknown *UnknownRulesTagError
	if _, err := Parse(data, MaxFramesDefault); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRulesTagError, got %v", err)
	}
}

func TestParseRejectsReservedHeaderBytes(t *testing.T) {
	data := buildTape(t, []byte{0x01}, nil)
	data[6] = 1
	if _, err := Parse(data, MaxFramesDefault); !errors.Is(err, ErrHeaderReservedNonZero) {
		t.Fatalf("expected ErrHeaderReservedNonZero, got %v", err)
	}
}

func TestParseRejectsInvalidClaimantUTF8(t *testing.T) {
	data := buildTape(t, []byte{0x01}, []byte{0xFF, 0xFE})
	if _, err := Parse(data, MaxFramesDefault); !errors.Is(err, ErrInvalidClaimantUTF8) {
		t.Fatalf("expected ErrInvalidClaimantUTF8, got %v", err)
	}
}

func TestParseRejectsFrameCountOutOfRange(t *testing.T) {
	var rangeErr *FrameCountRangeError

	// Zero frames.
	zero := Serialize(42, nil, 0, 0, nil)
	if _, err := Parse(zero, MaxFramesDefault); !errors.As(err, &rangeErr) {
		t.Fatalf("expected FrameCountRangeError for zero frames, got %v", err)
	}

	// Above the caller's limit.
	data := buildTape(t, make([]byte, 11), nil)
	if _, err := Parse(data, 10); !errors.As(err, &rangeErr) {
		t.Fatalf("expected FrameCountRangeError above limit, got %v", err)
	}
	if rangeErr.FrameCount != 11 || rangeErr.MaxFrames != 10 {
		t.Errorf("range error = %+v", rangeErr)
	}
}

func TestParseRejectsLengthMismatch(t *testing.T) {
	data := buildTape(t, []byte{0x01, 0x02}, nil)
	// Claim one more frame than the buffer holds.
	binary.LittleEndian.PutUint32(data[12:], 3)

	var mismatch *LengthMismatchError
	if _, err := Parse(data, MaxFramesDefault); !errors.As(err, &mismatch) {
		t.Fatalf("expected LengthMismatchError, got %v", err)
	}
}

func TestParseRejectsReservedInputBits(t *testing.T) {
	data := buildTape(t, []byte{0x00, 0x10, 0x00}, nil)
	fixupChecksum(data)

	var reserved *ReservedInputBitsError
	_, err := Parse(data, MaxFramesDefault)
	if !errors.As(err, &reserved) {
		t.Fatalf("expected ReservedInputBitsError, got %v", err)
	}
	if reserved.Frame != 1 || reserved.Byte != 0x10 {
		t.Errorf("reserved = %+v", reserved)
	}
}

func TestParseRejectsCrcMismatch(t *testing.T) {
	data := buildTape(t, []byte{0x01, 0x02}, nil)
	// Flip one input bit without updating the stored checksum.
	data[HeaderSize] ^= 0x01

	var crc *CrcMismatchError
	if _, err := Parse(data, MaxFramesDefault); !errors.As(err, &crc) {
		t.Fatalf("expected CrcMismatchError, got %v", err)
	}
}

func TestSerializeClaimantPadding(t *testing.T) {
	// Short claimant zero-pads; over-long claimant truncates to 56 bytes.
	short := buildTape(t, []byte{0x01}, []byte("abc"))
	parsed, err := Parse(short, MaxFramesDefault)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if string(parsed.Header.Claimant) != "abc" {
		t.Errorf("claimant = %q", parsed.Header.Claimant)
	}

	long := bytes.Repeat([]byte{'x'}, ClaimantSize+20)
	data := buildTape(t, []byte{0x01}, long)
	parsed, err = Parse(data, MaxFramesDefault)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Header.Claimant) != ClaimantSize {
		t.Errorf("claimant length = %d, expected %d", len(parsed.Header.Claimant), ClaimantSize)
	}
}

func TestParseEmptyClaimant(t *testing.T) {
	data := buildTape(t, []byte{0x01}, nil)
	parsed, err := Parse(data, MaxFramesDefault)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Header.Claimant) != 0 {
		t.Errorf("claimant = %q, expected empty", parsed.Header.Claimant)
	}
}

// fixupChecksum recomputes the stored CRC after a header or input mutation.
func fixupChecksum(data []byte) {
	bodyEnd := len(data) - FooterSize
	binary.LittleEndian.PutUint32(data[bodyEnd+8:], Checksum(data[:bodyEnd]))
}
