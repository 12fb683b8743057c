package tape

// FrameInput is one frame of player intent. On the wire it is a single byte
// with bits 0..3 = left/right/thrust/fire and bits 4..7 reserved zero.
type FrameInput struct {
	Left   bool
	Right  bool
	Thrust bool
	Fire   bool
}

const (
	inputBitLeft   = 0x01
	inputBitRight  = 0x02
	inputBitThrust = 0x04
	inputBitFire   = 0x08

	// InputReservedMask covers the bits a valid input byte never sets.
	InputReservedMask = 0xF0
)

// EncodeInputByte packs a FrameInput into its wire byte.
func EncodeInputByte(in FrameInput) uint8 {
	var b uint8
	if in.Left {
		b |= inputBitLeft
	}
	if in.Right {
		b |= inputBitRight
	}
	if in.Thrust {
		b |= inputBitThrust
	}
	if in.Fire {
		b |= inputBitFire
	}
	return b
}

// DecodeInputByte unpacks a wire byte. Reserved bits are ignored here; the
// codec rejects them before decode during parsing.
func DecodeInputByte(b uint8) FrameInput {
	return FrameInput{
		Left:   b&inputBitLeft != 0,
		Right:  b&inputBitRight != 0,
		Thrust: b&inputBitThrust != 0,
		Fire:   b&inputBitFire != 0,
	}
}
