package fixedpoint

import "testing"

func TestSinCosBAMCardinals(t *testing.T) {
	tests := []struct {
		name  string
		angle uint8
		sin   int32
		cos   int32
	}{
		{name: "east", angle: 0, sin: 0, cos: 16384},
		{name: "southeast", angle: 32, sin: 11585, cos: 11585},
		{name: "south", angle: 64, sin: 16384, cos: 0},
		{name: "southwest", angle: 96, sin: 11585, cos: -11585},
		{name: "west", angle: 128, sin: 0, cos: -16384},
		{name: "northwest", angle: 160, sin: -11585, cos: -11585},
		{name: "north", angle: 192, sin: -16384, cos: 0},
		{name: "northeast", angle: 224, sin: -11585, cos: 11585},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SinBAM(tc.angle); got != tc.sin {
				t.Errorf("SinBAM(%d) = %d, expected %d", tc.angle, got, tc.sin)
			}
			if got := CosBAM(tc.angle); got != tc.cos {
				t.Errorf("CosBAM(%d) = %d, expected %d", tc.angle, got, tc.cos)
			}
		})
	}
}

func TestSinCosBAMQ014Range(t *testing.T) {
	for a := 0; a < 256; a++ {
		s := SinBAM(uint8(a))
		c := CosBAM(uint8(a))
		if s < -16384 || s > 16384 {
			t.Fatalf("SinBAM(%d) = %d out of Q0.14 range", a, s)
		}
		if c < -16384 || c > 16384 {
			t.Fatalf("CosBAM(%d) = %d out of Q0.14 range", a, c)
		}
	}
}

func TestAtan2BAM(t *testing.T) {
	tests := []struct {
		name     string
		dy, dx   int32
		expected uint8
	}{
		{name: "zero vector", dy: 0, dx: 0, expected: 0},
		{name: "east", dy: 0, dx: 100, expected: 0},
		{name: "diag southeast", dy: 100, dx: 100, expected: 32},
		{name: "south", dy: 100, dx: 0, expected: 64},
		{name: "diag southwest", dy: 100, dx: -100, expected: 96},
		{name: "west", dy: 0, dx: -100, expected: 128},
		{name: "diag northwest", dy: -100, dx: -100, expected: 160},
		{name: "north", dy: -100, dx: 0, expected: 192},
		{name: "diag northeast", dy: -100, dx: 100, expected: 224},
		{name: "shallow first octant", dy: 50, dx: 100, expected: 19},
		{name: "tiny negative dy wraps to zero", dy: -1, dx: 1000, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Atan2BAM(tc.dy, tc.dx); got != tc.expected {
				t.Errorf("Atan2BAM(%d, %d) = %d, expected %d", tc.dy, tc.dx, got, tc.expected)
			}
		})
	}
}

func TestAtan2BAMRoundTripsCardinals(t *testing.T) {
	// Resolving a cardinal angle into a vector and taking its angle again
	// must land back on the same BAM value.
	for _, a := range []uint8{0, 64, 128, 192} {
		vx, vy := VelocityQ8_8(a, 1000)
		if got := Atan2BAM(vy, vx); got != a {
			t.Errorf("round trip of angle %d came back as %d", a, got)
		}
	}
}

func TestVelocityQ8_8(t *testing.T) {
	vx, vy := VelocityQ8_8(0, 256)
	if vx != 256 || vy != 0 {
		t.Errorf("VelocityQ8_8(0, 256) = (%d, %d), expected (256, 0)", vx, vy)
	}

	vx, vy = VelocityQ8_8(192, 2219)
	if vx != 0 || vy != -2219 {
		t.Errorf("VelocityQ8_8(192, 2219) = (%d, %d), expected (0, -2219)", vx, vy)
	}
}

func TestDisplaceQ12_4(t *testing.T) {
	// 20 px east is 320 in Q12.4.
	dx, dy := DisplaceQ12_4(0, 20)
	if dx != 320 || dy != 0 {
		t.Errorf("DisplaceQ12_4(0, 20) = (%d, %d), expected (320, 0)", dx, dy)
	}

	dx, dy = DisplaceQ12_4(64, 20)
	if dx != 0 || dy != 320 {
		t.Errorf("DisplaceQ12_4(64, 20) = (%d, %d), expected (0, 320)", dx, dy)
	}
}

func TestApplyDrag(t *testing.T) {
	tests := []struct {
		v        int32
		expected int32
	}{
		{v: 0, expected: 0},
		{v: 128, expected: 127},
		{v: 1280, expected: 1270},
		{v: -1280, expected: -1270},
		{v: 127, expected: 127}, // below one drag quantum, coasts forever
	}
	for _, tc := range tests {
		if got := ApplyDrag(tc.v); got != tc.expected {
			t.Errorf("ApplyDrag(%d) = %d, expected %d", tc.v, got, tc.expected)
		}
	}
}

func TestClampSpeedQ8_8(t *testing.T) {
	const maxSq = 1451 * 1451

	vx, vy := ClampSpeedQ8_8(100, 200, maxSq)
	if vx != 100 || vy != 200 {
		t.Errorf("under-limit velocity changed: (%d, %d)", vx, vy)
	}

	vx, vy = ClampSpeedQ8_8(4000, 3000, maxSq)
	if vx*vx+vy*vy > maxSq {
		t.Errorf("clamped velocity (%d, %d) still exceeds the limit", vx, vy)
	}
	if vx == 0 && vy == 0 {
		t.Error("clamp collapsed the velocity to zero")
	}
}

func TestWrapQ12_4(t *testing.T) {
	tests := []struct {
		v        int32
		expected int32
	}{
		{v: 0, expected: 0},
		{v: 15359, expected: 15359},
		{v: 15360, expected: 0},
		{v: -1, expected: 15359},
		{v: -15361, expected: 15359},
		{v: 30725, expected: 5},
	}
	for _, tc := range tests {
		if got := WrapQ12_4(tc.v, 15360); got != tc.expected {
			t.Errorf("WrapQ12_4(%d, 15360) = %d, expected %d", tc.v, got, tc.expected)
		}
	}
}

func TestShortestDeltaQ12_4(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int32
		expected int32
	}{
		{name: "direct", a: 100, b: 300, expected: 200},
		{name: "direct negative", a: 300, b: 100, expected: -200},
		{name: "wraps forward", a: 15300, b: 100, expected: 160},
		{name: "wraps backward", a: 100, b: 15300, expected: -160},
		{name: "same point", a: 42, b: 42, expected: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShortestDeltaQ12_4(tc.a, tc.b, 15360); got != tc.expected {
				t.Errorf("ShortestDeltaQ12_4(%d, %d) = %d, expected %d", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestClampI32(t *testing.T) {
	if got := ClampI32(5, 0, 10); got != 5 {
		t.Errorf("ClampI32(5, 0, 10) = %d", got)
	}
	if got := ClampI32(-5, 0, 10); got != 0 {
		t.Errorf("ClampI32(-5, 0, 10) = %d", got)
	}
	if got := ClampI32(15, 0, 10); got != 10 {
		t.Errorf("ClampI32(15, 0, 10) = %d", got)
	}
}
