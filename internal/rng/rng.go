// Package rng implements the 32-bit xorshift generator every run is seeded
// with. The generator exists in two deliberately incompatible flavors:
// Gameplay, whose every draw is part of the deterministic replay contract,
// and Cosmetic, which feeds visual-only values (asteroid outline jitter and
// the like) and must never leak into game logic. Keeping them as distinct
// types means crossing the streams is a compile error, not a review catch.
package rng

// cosmeticSeedXor decorrelates the cosmetic stream from the gameplay stream
// that shares the same run seed.
const cosmeticSeedXor uint32 = 0x5A4B5450

type xorshift32 struct {
	state uint32
}

func newXorshift32(seed uint32) xorshift32 {
	if seed == 0 {
		seed = 0xDEADBEEF
	}
	return xorshift32{state: seed}
}

func (x *xorshift32) next() uint32 {
	v := x.state
	v ^= v << 13
	v ^= v >> 17
	v ^= v << 5
	x.state = v
	return v
}

func (x *xorshift32) nextRange(min, maxExclusive int32) int32 {
	span := uint32(maxExclusive - min)
	return min + int32(x.next()%span)
}

// Gameplay is the score-relevant stream. It lives inside the World and its
// state word is serialized into the tape footer.
type Gameplay struct {
	x xorshift32
}

// NewGameplay seeds the gameplay stream. A zero seed substitutes the fixed
// non-zero default so the generator can never degenerate.
func NewGameplay(seed uint32) Gameplay {
	return Gameplay{x: newXorshift32(seed)}
}

// Next advances the stream and returns the new 32-bit state.
func (g *Gameplay) Next() uint32 {
	return g.x.next()
}

// NextRange returns a value in [min, maxExclusive) via modulo reduction.
// maxExclusive must be greater than min.
func (g *Gameplay) NextRange(min, maxExclusive int32) int32 {
	return g.x.nextRange(min, maxExclusive)
}

// State returns the current state word for footer serialization.
func (g *Gameplay) State() uint32 {
	return g.x.state
}

// SetState restores an exact state word, e.g. when resuming from a snapshot.
func (g *Gameplay) SetState(state uint32) {
	g.x.state = state
}

// Cosmetic is the presentation-only stream, seeded from the same run seed
// but decorrelated by a fixed xor. The simulation never reads it.
type Cosmetic struct {
	x xorshift32
}

// NewCosmetic derives the cosmetic stream for a run seed.
func NewCosmetic(seed uint32) Cosmetic {
	return Cosmetic{x: newXorshift32(seed ^ cosmeticSeedXor)}
}

// Next advances the stream and returns the new 32-bit state.
func (c *Cosmetic) Next() uint32 {
	return c.x.next()
}

// NextRange returns a value in [min, maxExclusive).
func (c *Cosmetic) NextRange(min, maxExclusive int32) int32 {
	return c.x.nextRange(min, maxExclusive)
}
