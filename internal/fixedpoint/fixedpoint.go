// Package fixedpoint provides the integer-only math the simulation is built
// on. Positions are Q12.4 (pixels * 16), velocities are Q8.8 (px/frame * 256),
// angles are 8-bit BAM (256 units per full turn) and trig values are Q0.14.
// Nothing in this package touches floating point.
package fixedpoint

// SinBAM returns sin(angle) in Q0.14.
func SinBAM(angle uint8) int32 {
	return int32(sinTable[angle])
}

// CosBAM returns cos(angle) in Q0.14.
func CosBAM(angle uint8) int32 {
	return int32(cosTable[angle])
}

// Atan2BAM computes the BAM angle of the vector (dx, dy) using octant
// decomposition over a 33-entry lookup table. The ratio division truncates,
// matching the table resolution of one octant in 32 steps.
func Atan2BAM(dy, dx int32) uint8 {
	if dx == 0 && dy == 0 {
		return 0
	}

	absDX := dx
	if absDX < 0 {
		absDX = -absDX
	}
	absDY := dy
	if absDY < 0 {
		absDY = -absDY
	}

	var ratio int32
	swapped := false
	if absDX >= absDY {
		ratio = (absDY * 32) / absDX
	} else {
		ratio = (absDX * 32) / absDY
		swapped = true
	}
	if ratio > 32 {
		ratio = 32
	}

	angle := int32(atanTable[ratio])
	if swapped {
		angle = 64 - angle
	}
	if dx < 0 {
		angle = 128 - angle
	}
	if dy < 0 {
		angle = (256 - angle) & 0xFF
	}
	return uint8(angle & 0xFF)
}

// VelocityQ8_8 resolves a BAM angle and Q8.8 speed into Q8.8 components:
// Q0.14 * Q8.8 >> 14 = Q8.8.
func VelocityQ8_8(angle uint8, speed int32) (vx, vy int32) {
	vx = (CosBAM(angle) * speed) >> 14
	vy = (SinBAM(angle) * speed) >> 14
	return vx, vy
}

// DisplaceQ12_4 resolves a BAM angle and pixel distance into a Q12.4 offset:
// Q0.14 * px >> 10 = Q12.4.
func DisplaceQ12_4(angle uint8, distPx int32) (dx, dy int32) {
	dx = (CosBAM(angle) * distPx) >> 10
	dy = (SinBAM(angle) * distPx) >> 10
	return dx, dy
}

// ApplyDrag returns v - (v >> 7), about 0.992x per frame.
func ApplyDrag(v int32) int32 {
	return v - (v >> 7)
}

// ClampSpeedQ8_8 keeps (vx, vy) under the squared Q16.16 speed limit by
// repeatedly scaling by 3/4. Squared comparison avoids any sqrt.
func ClampSpeedQ8_8(vx, vy, maxSqQ16_16 int32) (int32, int32) {
	speedSq := vx*vx + vy*vy
	for speedSq > maxSqQ16_16 {
		vx = (vx * 3) >> 2
		vy = (vy * 3) >> 2
		speedSq = vx*vx + vy*vy
	}
	return vx, vy
}

// WrapQ12_4 folds a Q12.4 coordinate into [0, size). Exact for any input.
func WrapQ12_4(v, size int32) int32 {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

// ShortestDeltaQ12_4 returns the toroidal delta from a to b on an axis of the
// given size, picking the shorter way around.
func ShortestDeltaQ12_4(a, b, size int32) int32 {
	delta := b - a
	half := size / 2
	if delta > half {
		delta -= size
	} else if delta < -half {
		delta += size
	}
	return delta
}

// ClampI32 bounds v to [min, max].
func ClampI32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
