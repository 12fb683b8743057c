// Package sim is the deterministic game core. A World advances one fixed
// frame at a time as a pure function of its previous state and one
// FrameInput; every random draw comes from the gameplay RNG carried inside
// the World, so two Worlds stepped with the same seed and inputs are
// bit-identical regardless of wall clock, host, or scheduling.
package sim

import (
	"github.com/vovakirdan/astrotape/internal/rng"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// Mode is the coarse run state.
type Mode uint8

const (
	ModePlaying Mode = iota
	ModeGameOver
)

const (
	pruneAsteroids = 1 << iota
	pruneBullets
	pruneSaucers
	pruneSaucerBullets
)

// World holds the entire simulation state. Entities are stored in slices
// ordered by spawn; destruction marks Alive false and a single compaction
// pass per step removes the dead, so ids stay stable and every pairwise
// collision check within a frame sees the same snapshot.
type World struct {
	mode               Mode
	score              uint32
	lives              int32
	wave               int32
	nextExtraLifeScore uint32

	ship          Ship
	asteroids     []Asteroid
	bullets       []Bullet
	saucers       []Saucer
	saucerBullets []Bullet

	pruneMask         uint8
	saucerSpawnTimer  int32
	shipFireLatch     bool
	timeSinceLastKill int32
	frameCount        uint32
	nextEntityID      uint32

	rng rng.Gameplay
}

// NewWorld seeds a run: wave one's asteroids, the ship at its open spawn
// point, and the first saucer timer already drawn.
func NewWorld(seed uint32) *World {
	w := &World{
		mode:               ModePlaying,
		lives:              StartingLives,
		nextExtraLifeScore: ExtraLifeScoreStep,
		asteroids:          make([]Asteroid, 0, AsteroidCap+16),
		bullets:            make([]Bullet, 0, ShipBulletLimit),
		saucers:            make([]Saucer, 0, 4),
		saucerBullets:      make([]Bullet, 0, SaucerBulletLimit),
		rng:                rng.NewGameplay(seed),
	}

	w.ship = w.createShip()
	w.spawnWave()

	spawnMin, spawnMax := saucerSpawnRangeForWave(w.wave)
	w.saucerSpawnTimer = w.randomInt(spawnMin, spawnMax)

	return w
}

func (w *World) randomInt(min, maxExclusive int32) int32 {
	return w.rng.NextRange(min, maxExclusive)
}

func (w *World) allocID() uint32 {
	w.nextEntityID++
	return w.nextEntityID
}

// Score returns the current score.
func (w *World) Score() uint32 { return w.score }

// Lives returns the remaining lives.
func (w *World) Lives() int32 { return w.lives }

// Wave returns the current wave number, starting at 1.
func (w *World) Wave() int32 { return w.wave }

// FrameCount returns how many steps have been applied.
func (w *World) FrameCount() uint32 { return w.frameCount }

// RngState returns the gameplay RNG state word.
func (w *World) RngState() uint32 { return w.rng.State() }

// IsGameOver reports whether the run has ended.
func (w *World) IsGameOver() bool { return w.mode == ModeGameOver }

// Result summarizes the run for the tape footer.
func (w *World) Result() Result {
	return Result{
		FinalScore:    w.score,
		FinalRngState: w.rng.State(),
		FrameCount:    w.frameCount,
	}
}

// Clone deep-copies the world, including the RNG state.
func (w *World) Clone() *World {
	c := *w
	c.asteroids = append([]Asteroid(nil), w.asteroids...)
	c.bullets = append([]Bullet(nil), w.bullets...)
	c.saucers = append([]Saucer(nil), w.saucers...)
	c.saucerBullets = append([]Bullet(nil), w.saucerBullets...)
	return &c
}

// Result is the deterministic outcome of a run: what the tape footer claims
// and what verification recomputes.
type Result struct {
	FinalScore    uint32
	FinalRngState uint32
	FrameCount    uint32
}

// Checkpoint is a compact sample of world state used by sampled replays and
// debugging tools.
type Checkpoint struct {
	FrameCount            uint32
	RngState              uint32
	Score                 uint32
	Lives                 int32
	Wave                  int32
	Asteroids             int
	Bullets               int
	Saucers               int
	SaucerBullets         int
	ShipX, ShipY          int32
	ShipVX, ShipVY        int32
	ShipAngle             int32
	ShipCanControl        bool
	ShipFireCooldown      int32
	ShipRespawnTimer      int32
	ShipInvulnerableTimer int32
}

// Checkpoint samples the current state.
func (w *World) Checkpoint() Checkpoint {
	return Checkpoint{
		FrameCount:            w.frameCount,
		RngState:              w.rng.State(),
		Score:                 w.score,
		Lives:                 w.lives,
		Wave:                  w.wave,
		Asteroids:             len(w.asteroids),
		Bullets:               len(w.bullets),
		Saucers:               len(w.saucers),
		SaucerBullets:         len(w.saucerBullets),
		ShipX:                 w.ship.X,
		ShipY:                 w.ship.Y,
		ShipVX:                w.ship.VX,
		ShipVY:                w.ship.VY,
		ShipAngle:             w.ship.Angle,
		ShipCanControl:        w.ship.CanControl,
		ShipFireCooldown:      w.ship.FireCooldown,
		ShipRespawnTimer:      w.ship.RespawnTimer,
		ShipInvulnerableTimer: w.ship.InvulnerableTimer,
	}
}

// transitionState is the slice of world state the per-step transition rules
// are written against.
type transitionState struct {
	frameCount       uint32
	score            uint32
	wave             int32
	asteroids        int
	bullets          int
	saucers          int
	shipX, shipY     int32
	shipVX, shipVY   int32
	shipAngle        int32
	shipCanControl   bool
	shipFireCooldown int32
	shipFireLatch    bool
	shipRespawnTimer int32
}

func (w *World) transition() transitionState {
	return transitionState{
		frameCount:       w.frameCount,
		score:            w.score,
		wave:             w.wave,
		asteroids:        len(w.asteroids),
		bullets:          len(w.bullets),
		saucers:          len(w.saucers),
		shipX:            w.ship.X,
		shipY:            w.ship.Y,
		shipVX:           w.ship.VX,
		shipVY:           w.ship.VY,
		shipAngle:        w.ship.Angle,
		shipCanControl:   w.ship.CanControl,
		shipFireCooldown: w.ship.FireCooldown,
		shipFireLatch:    w.shipFireLatch,
		shipRespawnTimer: w.ship.RespawnTimer,
	}
}

// StepByte advances one frame from a wire input byte.
func (w *World) StepByte(b uint8) {
	w.Step(tape.DecodeInputByte(b))
}
