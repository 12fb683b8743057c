package sim

// AsteroidSize indexes the three asteroid generations.
type AsteroidSize uint8

const (
	AsteroidLarge AsteroidSize = iota
	AsteroidMedium
	AsteroidSmall
)

func (s AsteroidSize) String() string {
	switch s {
	case AsteroidLarge:
		return "large"
	case AsteroidMedium:
		return "medium"
	default:
		return "small"
	}
}

// Entity carries the fields every simulated object shares: a stable id
// assigned at spawn, Q12.4 position, Q8.8 velocity, a BAM angle, the alive
// flag consulted by the deferred prune, and the previous frame's pose. The
// Prev fields exist purely for presentation-layer interpolation; nothing in
// the stepper reads them.
type Entity struct {
	ID        uint32
	X, Y      int32 // Q12.4
	VX, VY    int32 // Q8.8
	Angle     int32 // BAM, kept in an int32 so invariants can detect overflow
	Alive     bool
	Radius    int32 // pixels
	PrevX     int32
	PrevY     int32
	PrevAngle int32
}

func (e *Entity) rememberPose() {
	e.PrevX = e.X
	e.PrevY = e.Y
	e.PrevAngle = e.Angle
}

// Ship is the player vessel. There is exactly one; when it is waiting to
// respawn CanControl is false and the respawn timer counts down.
type Ship struct {
	Entity
	CanControl        bool
	FireCooldown      int32
	RespawnTimer      int32
	InvulnerableTimer int32
}

// Asteroid tumbles at Spin BAM units per frame and splits into the next
// smaller size when shot.
type Asteroid struct {
	Entity
	Size AsteroidSize
	Spin int32
}

// Bullet is a short-lived projectile, fired by the ship or by a saucer.
type Bullet struct {
	Entity
	Life int32
}

// Saucer crosses the playfield horizontally, re-rolling its vertical drift
// on a timer. Small saucers aim at the ship; large ones fire at random.
type Saucer struct {
	Entity
	Small        bool
	FireCooldown int32
	DriftTimer   int32
}
