package rng

import "testing"

func TestGameplaySequence(t *testing.T) {
	// Locked output of xorshift32 from seed 12345. These values are part of
	// the replay contract; if this test fails, every existing tape breaks.
	expected := []uint32{3336926330, 1697253807, 2816511904, 1955480042, 718842323}

	g := NewGameplay(12345)
	for i, want := range expected {
		if got := g.Next(); got != want {
			t.Fatalf("draw %d = %d, expected %d", i, got, want)
		}
	}
}

func TestGameplayZeroSeedSubstitution(t *testing.T) {
	zero := NewGameplay(0)
	if zero.State() != 0xDEADBEEF {
		t.Fatalf("zero seed state = 0x%08x, expected 0xDEADBEEF", zero.State())
	}
	if got := zero.Next(); got != 1199382711 {
		t.Errorf("first draw from zero seed = %d, expected 1199382711", got)
	}

	explicit := NewGameplay(0xDEADBEEF)
	reset := NewGameplay(0)
	if explicit.Next() != reset.Next() {
		t.Error("zero seed and explicit 0xDEADBEEF seed diverged")
	}
}

func TestGameplayNextRange(t *testing.T) {
	g := NewGameplay(12345)
	// First draw is 3336926330; 3336926330 % 189 = 164, so -94 + 164 = 70.
	if got := g.NextRange(-94, 95); got != 70 {
		t.Errorf("NextRange(-94, 95) = %d, expected 70", got)
	}

	g = NewGameplay(99)
	for i := 0; i < 1000; i++ {
		v := g.NextRange(-163, 164)
		if v < -163 || v > 163 {
			t.Fatalf("draw %d = %d outside [-163, 163]", i, v)
		}
	}
}

func TestGameplayStateRoundTrip(t *testing.T) {
	g := NewGameplay(777)
	g.Next()
	g.Next()
	saved := g.State()

	var resumed Gameplay
	resumed.SetState(saved)
	if resumed.Next() != g.Next() {
		t.Error("resumed stream diverged from original")
	}
}

func TestCosmeticStreamIsDecorrelated(t *testing.T) {
	const seed = 12345

	game := NewGameplay(seed)
	cosmetic := NewCosmetic(seed)

	// Same run seed, different streams: the cosmetic stream is seeded
	// through a fixed xor so presentation draws can never shadow gameplay
	// draws.
	if cosmetic.Next() == game.Next() {
		t.Error("cosmetic stream mirrors the gameplay stream")
	}

	again := NewCosmetic(seed)
	first := again.Next()
	if first != 3993878090 {
		t.Errorf("cosmetic first draw = %d, expected 3993878090", first)
	}
}
