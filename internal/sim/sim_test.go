package sim

import (
	"testing"

	"github.com/vovakirdan/astrotape/internal/rng"
	"github.com/vovakirdan/astrotape/internal/tape"
)

func TestNewWorldInitialState(t *testing.T) {
	w := NewWorld(12345)

	if w.Wave() != 1 {
		t.Errorf("wave = %d, expected 1", w.Wave())
	}
	if got := len(w.asteroids); got != waveAsteroidCount(1) {
		t.Errorf("asteroids = %d, expected %d", got, waveAsteroidCount(1))
	}
	if w.Lives() != StartingLives {
		t.Errorf("lives = %d, expected %d", w.Lives(), StartingLives)
	}
	if w.Score() != 0 {
		t.Errorf("score = %d, expected 0", w.Score())
	}
	if w.FrameCount() != 0 {
		t.Errorf("frame count = %d, expected 0", w.FrameCount())
	}
	if w.IsGameOver() {
		t.Error("fresh world is game over")
	}
	if !w.ship.CanControl {
		t.Error("ship not controllable at start")
	}
	if w.ship.InvulnerableTimer != ShipInvulnerableFrames {
		t.Errorf("invulnerable timer = %d, expected %d", w.ship.InvulnerableTimer, ShipInvulnerableFrames)
	}
	if w.saucerSpawnTimer < SaucerSpawnMinFrames || w.saucerSpawnTimer >= SaucerSpawnMaxFrames {
		t.Errorf("saucer spawn timer = %d outside [%d, %d)", w.saucerSpawnTimer, SaucerSpawnMinFrames, SaucerSpawnMaxFrames)
	}

	if rule, ok := w.ValidateInvariants(); !ok {
		t.Errorf("fresh world violates %s", rule)
	}
}

func TestNewWorldDeterminism(t *testing.T) {
	a := NewWorld(777)
	b := NewWorld(777)
	if a.Checkpoint() != b.Checkpoint() {
		t.Fatal("same seed produced different initial worlds")
	}
	if a.RngState() != b.RngState() {
		t.Fatal("same seed produced different rng states")
	}
}

func TestReplayDeterminism(t *testing.T) {
	inputs := make([]byte, 300)
	for i := range inputs {
		inputs[i] = byte(i*7) & 0x0F
	}

	first := Replay(424242, inputs)
	second := Replay(424242, inputs)
	if first != second {
		t.Fatalf("same replay diverged: %+v vs %+v", first, second)
	}
	if first.FrameCount != 300 {
		t.Errorf("frame count = %d, expected 300", first.FrameCount)
	}

	other := Replay(424243, inputs)
	if other.FinalRngState == first.FinalRngState {
		t.Error("different seeds produced the same final rng state")
	}
}

func TestReplayStrictMatchesReplay(t *testing.T) {
	// Strict validation must accept every run the stepper itself produces,
	// across many seeds and random input streams.
	driver := rng.NewGameplay(0xC0FFEE00)

	for run := 0; run < 64; run++ {
		seed := driver.Next()
		inputs := make([]byte, driver.Next()%128+1)
		for i := range inputs {
			inputs[i] = byte(driver.Next()) & 0x0F
		}

		plain := Replay(seed, inputs)
		strict, err := ReplayStrict(seed, inputs)
		if err != nil {
			t.Fatalf("run %d (seed %d) rejected a legal replay: %v", run, seed, err)
		}
		if strict != plain {
			t.Fatalf("run %d (seed %d): strict %+v, plain %+v", run, seed, strict, plain)
		}
	}
}

func TestLiveGameMatchesReplay(t *testing.T) {
	inputs := make([]byte, 200)
	for i := range inputs {
		inputs[i] = byte(i) & 0x0F
	}

	game := NewLiveGame(31337)
	for _, b := range inputs {
		game.Step(b)
	}

	if got, want := game.Result(), Replay(31337, inputs); got != want {
		t.Fatalf("live result %+v, replay result %+v", got, want)
	}
	if err := game.Validate(); err != nil {
		t.Errorf("live world invalid after run: %v", err)
	}
}

func TestStepCheckedAppliesLegalSteps(t *testing.T) {
	game := NewLiveGame(2024)
	reference := NewWorld(2024)

	for frame := 0; frame < 120; frame++ {
		b := byte(frame*3) & 0x0F
		if err := game.StepChecked(b); err != nil {
			t.Fatalf("frame %d rejected: %v", frame, err)
		}
		reference.StepByte(b)
	}

	if game.Result() != reference.Result() {
		t.Fatalf("checked stepping diverged: %+v vs %+v", game.Result(), reference.Result())
	}
}

func TestWaveAdvanceOnCleared(t *testing.T) {
	w := NewWorld(99)
	w.asteroids = w.asteroids[:0]

	w.Step(tape.FrameInput{})

	if w.Wave() != 2 {
		t.Fatalf("wave = %d, expected 2", w.Wave())
	}
	if got := len(w.asteroids); got != waveAsteroidCount(2) {
		t.Errorf("asteroids = %d, expected %d", got, waveAsteroidCount(2))
	}
	if len(w.saucers) != 0 {
		t.Errorf("saucers = %d, expected 0", len(w.saucers))
	}
	if !w.ship.CanControl {
		t.Error("ship not controllable after wave spawn")
	}
	if w.ship.InvulnerableTimer != ShipInvulnerableFrames {
		t.Errorf("invulnerable timer = %d after wave spawn", w.ship.InvulnerableTimer)
	}
	if rule, ok := w.ValidateInvariants(); !ok {
		t.Errorf("post-wave world violates %s", rule)
	}
}

// parkAsteroidsFarAway pins every asteroid in a corner far from the ship so
// nothing interferes with ship-centric tests.
func parkAsteroidsFarAway(w *World) {
	for i := range w.asteroids {
		a := &w.asteroids[i]
		a.X, a.Y = 160, 160
		a.VX, a.VY = 0, 0
		a.Spin = 0
	}
}

func TestHoldingFireDoesNotAutofire(t *testing.T) {
	w := NewWorld(1)
	parkAsteroidsFarAway(w)

	fire := tape.FrameInput{Fire: true}

	w.Step(fire)
	if len(w.bullets) != 1 {
		t.Fatalf("bullets after first press = %d, expected 1", len(w.bullets))
	}

	// Held fire past the cooldown window must not shoot again.
	for i := 0; i < 14; i++ {
		w.Step(fire)
	}
	if len(w.bullets) != 1 {
		t.Fatalf("bullets while holding fire = %d, expected 1", len(w.bullets))
	}

	// Release, then press: one more shot.
	w.Step(tape.FrameInput{})
	w.Step(fire)
	if len(w.bullets) != 2 {
		t.Fatalf("bullets after re-press = %d, expected 2", len(w.bullets))
	}
}

func TestShipBulletLimit(t *testing.T) {
	w := NewWorld(1)
	parkAsteroidsFarAway(w)

	fire := tape.FrameInput{Fire: true}
	release := tape.FrameInput{}

	// Tap fire as fast as the cooldown allows.
	for len(w.bullets) < ShipBulletLimit {
		w.Step(fire)
		for i := int32(0); i < ShipBulletCooldown; i++ {
			w.Step(release)
		}
	}
	w.Step(fire)
	if len(w.bullets) > ShipBulletLimit {
		t.Fatalf("bullets = %d, exceeds limit %d", len(w.bullets), ShipBulletLimit)
	}
}

func TestTurnWrapsAngle(t *testing.T) {
	w := NewWorld(1)
	parkAsteroidsFarAway(w)

	left := tape.FrameInput{Left: true}
	start := w.ship.Angle
	for i := 0; i < 100; i++ {
		w.Step(left)
		if w.ship.Angle&^0xFF != 0 {
			t.Fatalf("angle %d escaped BAM range", w.ship.Angle)
		}
	}
	expected := (start - 100*ShipTurnSpeedBAM) & 0xFF
	if w.ship.Angle != expected {
		t.Errorf("angle = %d, expected %d", w.ship.Angle, expected)
	}
}

func TestThrustAndDragRespectSpeedLimit(t *testing.T) {
	w := NewWorld(1)
	parkAsteroidsFarAway(w)
	// Long test: push the saucer timer out so nothing shoots the ship.
	w.saucerSpawnTimer = 1 << 20

	thrust := tape.FrameInput{Thrust: true}
	for i := 0; i < 600; i++ {
		w.Step(thrust)
		speedSq := w.ship.VX*w.ship.VX + w.ship.VY*w.ship.VY
		if speedSq > ShipMaxSpeedSqQ16_16 {
			t.Fatalf("frame %d: speedSq %d exceeds limit %d", i, speedSq, ShipMaxSpeedSqQ16_16)
		}
	}
	if w.ship.VX == 0 && w.ship.VY == 0 {
		t.Error("sustained thrust produced no velocity")
	}

	// Coasting decays toward zero.
	before := w.ship.VX*w.ship.VX + w.ship.VY*w.ship.VY
	for i := 0; i < 600; i++ {
		w.Step(tape.FrameInput{})
	}
	after := w.ship.VX*w.ship.VX + w.ship.VY*w.ship.VY
	if after >= before {
		t.Errorf("drag did not reduce speed: %d -> %d", before, after)
	}
}

func TestShipAsteroidCollisionUsesFudgedRadius(t *testing.T) {
	w := NewWorld(3)
	w.ship.InvulnerableTimer = 0
	w.asteroids = w.asteroids[:0]

	rock := Asteroid{
		Entity: Entity{
			ID:     w.allocID(),
			X:      w.ship.X + 960, // 60 px away
			Y:      w.ship.Y,
			Alive:  true,
			Radius: AsteroidRadiusLarge,
		},
		Size: AsteroidLarge,
	}
	w.asteroids = append(w.asteroids, rock)

	// 60 px is inside the raw radii sum (14+48) but outside the fudged one
	// (14 + 42): a graze, not a hit.
	w.handleCollisions()
	if !w.ship.CanControl {
		t.Fatal("graze outside the fudged radius killed the ship")
	}

	w.asteroids[0].X = w.ship.X + 800 // 50 px away
	w.handleCollisions()
	if w.ship.CanControl {
		t.Fatal("overlap inside the fudged radius did not kill the ship")
	}
	if w.Lives() != StartingLives-1 {
		t.Errorf("lives = %d, expected %d", w.Lives(), StartingLives-1)
	}
	if w.ship.RespawnTimer != ShipRespawnFrames {
		t.Errorf("respawn timer = %d, expected %d", w.ship.RespawnTimer, ShipRespawnFrames)
	}
}

func TestRespawnPicksOpenPoint(t *testing.T) {
	w := NewWorld(5)
	w.asteroids = w.asteroids[:0]

	// Park a large asteroid exactly on the default spawn point.
	w.asteroids = append(w.asteroids, Asteroid{
		Entity: Entity{
			ID:     w.allocID(),
			X:      shipSpawnXQ12_4,
			Y:      shipSpawnYQ12_4,
			Alive:  true,
			Radius: AsteroidRadiusLarge,
		},
		Size: AsteroidLarge,
	})

	w.destroyShip()
	for i := int32(0); i <= ShipRespawnFrames; i++ {
		w.Step(tape.FrameInput{})
	}

	if !w.ship.CanControl {
		t.Fatal("ship did not respawn after the timer")
	}
	if w.ship.X == shipSpawnXQ12_4 && w.ship.Y == shipSpawnYQ12_4 {
		t.Error("ship respawned on top of the blocking asteroid")
	}
	if w.ship.InvulnerableTimer != ShipInvulnerableFrames {
		t.Errorf("invulnerable timer = %d after respawn", w.ship.InvulnerableTimer)
	}

	a := &w.asteroids[0]
	if clearanceSq(a.X, a.Y, a.Radius, w.ship.X, w.ship.Y, w.ship.Radius) <= 0 {
		t.Error("respawn point overlaps the hazard")
	}

	// The solver only ever lands on its fixed grid.
	if (w.ship.X-shipRespawnEdgePaddingQ12_4)%shipRespawnGridStepQ12_4 != 0 ||
		(w.ship.Y-shipRespawnEdgePaddingQ12_4)%shipRespawnGridStepQ12_4 != 0 {
		t.Errorf("respawn point (%d, %d) off the search grid", w.ship.X, w.ship.Y)
	}
}

func TestFindBestShipSpawnPointDeterministic(t *testing.T) {
	w := NewWorld(123)
	for i := 0; i < 40; i++ {
		w.Step(tape.FrameInput{Thrust: i%2 == 0, Fire: i%3 == 0})
	}

	c := w.Clone()
	x1, y1 := w.findBestShipSpawnPoint()
	x2, y2 := c.findBestShipSpawnPoint()
	if x1 != x2 || y1 != y2 {
		t.Fatalf("spawn solver diverged: (%d,%d) vs (%d,%d)", x1, y1, x2, y2)
	}
}

func TestAsteroidCapHoldsThroughSplit(t *testing.T) {
	w := NewWorld(9)
	for len(w.asteroids) < AsteroidCap {
		w.asteroids = append(w.asteroids, w.createAsteroid(AsteroidLarge, 1000, 1000))
	}

	alive := len(w.asteroids)
	w.destroyAsteroid(0, true, &alive)

	count := 0
	for i := range w.asteroids {
		if w.asteroids[i].Alive {
			count++
		}
	}
	if count > AsteroidCap {
		t.Fatalf("alive asteroids = %d, exceeds cap %d", count, AsteroidCap)
	}
	if count != AsteroidCap {
		t.Errorf("alive asteroids = %d, expected the split to refill to %d", count, AsteroidCap)
	}
}

func TestDestroyAsteroidScoresAndSplits(t *testing.T) {
	tests := []struct {
		name     string
		size     AsteroidSize
		score    uint32
		children int
	}{
		{name: "large", size: AsteroidLarge, score: ScoreLargeAsteroid, children: 2},
		{name: "medium", size: AsteroidMedium, score: ScoreMediumAsteroid, children: 2},
		{name: "small", size: AsteroidSmall, score: ScoreSmallAsteroid, children: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld(4)
			w.asteroids = w.asteroids[:0]
			w.asteroids = append(w.asteroids, w.createAsteroid(tc.size, 2000, 2000))

			alive := 1
			scoreBefore := w.Score()
			w.destroyAsteroid(0, true, &alive)

			if got := w.Score() - scoreBefore; got != tc.score {
				t.Errorf("score delta = %d, expected %d", got, tc.score)
			}
			if alive != tc.children {
				t.Errorf("alive after destroy = %d, expected %d", alive, tc.children)
			}
			if w.timeSinceLastKill != 0 {
				t.Errorf("kill timer = %d, expected 0", w.timeSinceLastKill)
			}
		})
	}
}

func TestSaucerBulletKillsAsteroidWithoutScore(t *testing.T) {
	w := NewWorld(4)
	w.asteroids = w.asteroids[:0]
	w.asteroids = append(w.asteroids, w.createAsteroid(AsteroidSmall, 2000, 2000))

	alive := 1
	w.destroyAsteroid(0, false, &alive)
	if w.Score() != 0 {
		t.Errorf("score = %d, saucer kill must not award points", w.Score())
	}
}

func TestSaucerDiesOnAsteroid(t *testing.T) {
	w := NewWorld(8)
	w.asteroids = w.asteroids[:0]
	w.asteroids = append(w.asteroids, Asteroid{
		Entity: Entity{ID: w.allocID(), X: 3000, Y: 3000, Alive: true, Radius: AsteroidRadiusLarge},
		Size:   AsteroidLarge,
	})
	w.saucers = append(w.saucers, Saucer{
		Entity: Entity{ID: w.allocID(), X: 3000, Y: 3000, Alive: true, Radius: SaucerRadiusLarge},
	})

	w.handleCollisions()

	if w.saucers[0].Alive {
		t.Error("saucer survived ramming an asteroid")
	}
	if !w.asteroids[0].Alive {
		t.Error("asteroid destroyed by a saucer ramming it")
	}
	if w.Score() != 0 {
		t.Errorf("score = %d, ramming must not award points", w.Score())
	}

	w.pruneDestroyedEntities()
	if len(w.saucers) != 0 {
		t.Errorf("saucers after prune = %d", len(w.saucers))
	}
}

func TestExtraLifeEveryScoreStep(t *testing.T) {
	w := NewWorld(6)

	w.addScore(ExtraLifeScoreStep)
	if w.Lives() != StartingLives+1 {
		t.Fatalf("lives = %d after first threshold, expected %d", w.Lives(), StartingLives+1)
	}

	// One large award can cross several thresholds at once.
	w.addScore(25000)
	if w.Lives() != StartingLives+3 {
		t.Fatalf("lives = %d after crossing two more thresholds, expected %d", w.Lives(), StartingLives+3)
	}
	if w.nextExtraLifeScore != 4*ExtraLifeScoreStep {
		t.Errorf("next threshold = %d, expected %d", w.nextExtraLifeScore, 4*ExtraLifeScoreStep)
	}
}

func TestGameOverStopsPlay(t *testing.T) {
	w := NewWorld(11)
	w.lives = 1
	w.destroyShip()

	if !w.IsGameOver() {
		t.Fatal("losing the last life did not end the game")
	}

	w.asteroids = w.asteroids[:0]
	scoreBefore := w.Score()
	waveBefore := w.Wave()

	fire := tape.FrameInput{Fire: true}
	for i := 0; i < 10; i++ {
		w.Step(fire)
	}

	if len(w.bullets) != 0 {
		t.Errorf("bullets fired after game over: %d", len(w.bullets))
	}
	if w.Score() != scoreBefore {
		t.Errorf("score changed after game over: %d -> %d", scoreBefore, w.Score())
	}
	if w.Wave() != waveBefore {
		t.Errorf("wave advanced after game over: %d -> %d", waveBefore, w.Wave())
	}
	if w.ship.CanControl {
		t.Error("ship regained control after game over")
	}
	if w.FrameCount() != 10 {
		t.Errorf("frame count = %d, steps must still count", w.FrameCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := NewWorld(55)
	c := w.Clone()

	for i := 0; i < 50; i++ {
		w.Step(tape.FrameInput{Thrust: true, Fire: i%5 == 0})
	}

	if c.FrameCount() != 0 {
		t.Error("stepping the original advanced the clone")
	}
	if c.Checkpoint() != NewWorld(55).Checkpoint() {
		t.Error("clone drifted from the initial state")
	}
}

func TestReplayWithCheckpoints(t *testing.T) {
	inputs := make([]byte, 25)
	checkpoints := ReplayWithCheckpoints(808, inputs, 10)

	// Initial state plus frames 10, 20 and the final 25.
	if len(checkpoints) != 4 {
		t.Fatalf("checkpoints = %d, expected 4", len(checkpoints))
	}
	if checkpoints[0].FrameCount != 0 {
		t.Errorf("first checkpoint frame = %d", checkpoints[0].FrameCount)
	}
	if last := checkpoints[len(checkpoints)-1]; last.FrameCount != 25 {
		t.Errorf("last checkpoint frame = %d, expected 25", last.FrameCount)
	}

	final := Replay(808, inputs)
	last := checkpoints[len(checkpoints)-1]
	if last.Score != final.FinalScore || last.RngState != final.FinalRngState {
		t.Error("final checkpoint disagrees with replay result")
	}
}

func TestSnapshotMirrorsWorld(t *testing.T) {
	w := NewWorld(14)
	for i := 0; i < 30; i++ {
		w.Step(tape.FrameInput{Thrust: true})
	}

	snap := w.Snapshot()
	if snap.FrameCount != w.FrameCount() || snap.Score != w.Score() || snap.Wave != w.Wave() {
		t.Error("snapshot header fields disagree with world")
	}
	if len(snap.Asteroids) != len(w.asteroids) {
		t.Errorf("snapshot asteroids = %d, world has %d", len(snap.Asteroids), len(w.asteroids))
	}
	if snap.Pressure < 0 || snap.Pressure > 100 {
		t.Errorf("pressure = %d outside [0, 100]", snap.Pressure)
	}
	if snap.Ship.X != w.ship.X || snap.Ship.Y != w.ship.Y {
		t.Error("snapshot ship pose disagrees with world")
	}

	// Mutating the snapshot must not touch the live world.
	if len(snap.Asteroids) > 0 {
		before := w.asteroids[0].X
		snap.Asteroids[0].X = -999
		if w.asteroids[0].X != before {
			t.Error("snapshot aliases world state")
		}
	}
}

func TestEmptyInputSurvival(t *testing.T) {
	// A pilot who never touches the controls cannot score: no bullets are
	// ever fired and crashes award nothing.
	inputs := make([]byte, 600)
	first := Replay(0xDEADBEEF, inputs)
	second := Replay(0xDEADBEEF, inputs)

	if first != second {
		t.Fatalf("identical idle runs diverged: %+v vs %+v", first, second)
	}
	if first.FrameCount != 600 {
		t.Errorf("FrameCount = %d, want 600", first.FrameCount)
	}
	if first.FinalScore != 0 {
		t.Errorf("idle run scored %d, want 0", first.FinalScore)
	}

	w := NewWorld(0xDEADBEEF)
	for range inputs {
		w.Step(tape.FrameInput{})
	}
	if w.Lives() < 0 || w.Lives() > StartingLives {
		t.Errorf("lives = %d, want within [0, %d]", w.Lives(), StartingLives)
	}
	if code, ok := w.ValidateInvariants(); !ok {
		t.Errorf("idle world violates invariant %v", code)
	}
}
