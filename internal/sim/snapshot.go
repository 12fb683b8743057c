package sim

// Snapshot is a deep copy of everything a presentation layer needs. Entities
// carry their previous-frame pose so renderers can interpolate between
// simulation frames without touching the live World.
type Snapshot struct {
	FrameCount         uint32
	Score              uint32
	Lives              int32
	Wave               int32
	IsGameOver         bool
	RngState           uint32
	SaucerSpawnTimer   int32
	TimeSinceLastKill  int32
	NextExtraLifeScore uint32
	Pressure           int32
	Ship               ShipSnapshot
	Asteroids          []AsteroidSnapshot
	Bullets            []BulletSnapshot
	Saucers            []SaucerSnapshot
	SaucerBullets      []BulletSnapshot
}

// EntitySnapshot mirrors Entity for read-only consumers.
type EntitySnapshot struct {
	ID        uint32
	X, Y      int32
	VX, VY    int32
	Angle     int32
	Alive     bool
	Radius    int32
	PrevX     int32
	PrevY     int32
	PrevAngle int32
}

type ShipSnapshot struct {
	EntitySnapshot
	CanControl        bool
	FireCooldown      int32
	RespawnTimer      int32
	InvulnerableTimer int32
}

type AsteroidSnapshot struct {
	EntitySnapshot
	Size AsteroidSize
	Spin int32
}

type BulletSnapshot struct {
	EntitySnapshot
	Life int32
}

type SaucerSnapshot struct {
	EntitySnapshot
	Small        bool
	FireCooldown int32
	DriftTimer   int32
}

func snapshotEntity(e *Entity) EntitySnapshot {
	return EntitySnapshot{
		ID:        e.ID,
		X:         e.X,
		Y:         e.Y,
		VX:        e.VX,
		VY:        e.VY,
		Angle:     e.Angle,
		Alive:     e.Alive,
		Radius:    e.Radius,
		PrevX:     e.PrevX,
		PrevY:     e.PrevY,
		PrevAngle: e.PrevAngle,
	}
}

// Snapshot deep-copies the world state for rendering or inspection.
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		FrameCount:         w.frameCount,
		Score:              w.score,
		Lives:              w.lives,
		Wave:               w.wave,
		IsGameOver:         w.mode == ModeGameOver,
		RngState:           w.rng.State(),
		SaucerSpawnTimer:   w.saucerSpawnTimer,
		TimeSinceLastKill:  w.timeSinceLastKill,
		NextExtraLifeScore: w.nextExtraLifeScore,
		Pressure:           saucerPressurePct(w.wave, w.timeSinceLastKill),
		Ship: ShipSnapshot{
			EntitySnapshot:    snapshotEntity(&w.ship.Entity),
			CanControl:        w.ship.CanControl,
			FireCooldown:      w.ship.FireCooldown,
			RespawnTimer:      w.ship.RespawnTimer,
			InvulnerableTimer: w.ship.InvulnerableTimer,
		},
		Asteroids:     make([]AsteroidSnapshot, 0, len(w.asteroids)),
		Bullets:       make([]BulletSnapshot, 0, len(w.bullets)),
		Saucers:       make([]SaucerSnapshot, 0, len(w.saucers)),
		SaucerBullets: make([]BulletSnapshot, 0, len(w.saucerBullets)),
	}

	for i := range w.asteroids {
		a := &w.asteroids[i]
		snap.Asteroids = append(snap.Asteroids, AsteroidSnapshot{
			EntitySnapshot: snapshotEntity(&a.Entity),
			Size:           a.Size,
			Spin:           a.Spin,
		})
	}
	for i := range w.bullets {
		b := &w.bullets[i]
		snap.Bullets = append(snap.Bullets, BulletSnapshot{
			EntitySnapshot: snapshotEntity(&b.Entity),
			Life:           b.Life,
		})
	}
	for i := range w.saucers {
		s := &w.saucers[i]
		snap.Saucers = append(snap.Saucers, SaucerSnapshot{
			EntitySnapshot: snapshotEntity(&s.Entity),
			Small:          s.Small,
			FireCooldown:   s.FireCooldown,
			DriftTimer:     s.DriftTimer,
		})
	}
	for i := range w.saucerBullets {
		b := &w.saucerBullets[i]
		snap.SaucerBullets = append(snap.SaucerBullets, BulletSnapshot{
			EntitySnapshot: snapshotEntity(&b.Entity),
			Life:           b.Life,
		})
	}

	return snap
}
