package sim

import (
	"github.com/vovakirdan/astrotape/internal/fixedpoint"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// Step advances the world by exactly one frame. Sub-phase order is fixed and
// load-bearing: ship, asteroids, ship bullets, saucers, saucer bullets,
// collision resolution, compaction, anti-lurk bookkeeping, wave-clear check.
func (w *World) Step(input tape.FrameInput) {
	w.frameCount++

	w.updateShip(input.Left, input.Right, input.Thrust, input.Fire)
	w.updateAsteroids()
	w.updateBullets()
	w.updateSaucers()
	w.updateSaucerBullets()

	w.handleCollisions()
	w.pruneDestroyedEntities()

	w.timeSinceLastKill++

	if w.mode == ModePlaying && len(w.asteroids) == 0 && len(w.saucers) == 0 {
		w.spawnWave()
	}
}

func (w *World) updateShip(turnLeft, turnRight, thrust, fire bool) {
	if w.ship.FireCooldown > 0 {
		w.ship.FireCooldown--
	}

	if !fire {
		w.shipFireLatch = false
	}

	if !w.ship.CanControl {
		if w.ship.RespawnTimer > 0 {
			w.ship.RespawnTimer--
		}
		if w.ship.RespawnTimer <= 0 {
			w.spawnShipAtBestOpenPoint()
		}
		if fire {
			w.shipFireLatch = true
		}
		return
	}

	w.ship.rememberPose()

	if w.ship.InvulnerableTimer > 0 {
		w.ship.InvulnerableTimer--
	}

	if turnLeft {
		w.ship.Angle = (w.ship.Angle - ShipTurnSpeedBAM) & 0xFF
	}
	if turnRight {
		w.ship.Angle = (w.ship.Angle + ShipTurnSpeedBAM) & 0xFF
	}

	if thrust {
		accelVX := (fixedpoint.CosBAM(uint8(w.ship.Angle)) * ShipThrustQ8_8) >> 14
		accelVY := (fixedpoint.SinBAM(uint8(w.ship.Angle)) * ShipThrustQ8_8) >> 14
		w.ship.VX += accelVX
		w.ship.VY += accelVY
	}

	w.ship.VX = fixedpoint.ApplyDrag(w.ship.VX)
	w.ship.VY = fixedpoint.ApplyDrag(w.ship.VY)
	w.ship.VX, w.ship.VY = fixedpoint.ClampSpeedQ8_8(w.ship.VX, w.ship.VY, ShipMaxSpeedSqQ16_16)

	// Fire is edge triggered: holding the button does not autofire.
	firePressed := fire && !w.shipFireLatch
	if firePressed && w.ship.FireCooldown <= 0 && len(w.bullets) < ShipBulletLimit {
		w.spawnShipBullet()
		w.ship.FireCooldown = ShipBulletCooldown
	}
	if fire {
		w.shipFireLatch = true
	}

	w.ship.X = wrapX(w.ship.X + (w.ship.VX >> 4))
	w.ship.Y = wrapY(w.ship.Y + (w.ship.VY >> 4))
}

func (w *World) updateAsteroids() {
	for i := range w.asteroids {
		a := &w.asteroids[i]
		a.rememberPose()
		a.X = wrapX(a.X + (a.VX >> 4))
		a.Y = wrapY(a.Y + (a.VY >> 4))
		a.Angle = (a.Angle + a.Spin) & 0xFF
	}
}

func (w *World) updateBullets() {
	if updateProjectiles(w.bullets) {
		w.pruneMask |= pruneBullets
	}
}

func (w *World) updateSaucerBullets() {
	if updateProjectiles(w.saucerBullets) {
		w.pruneMask |= pruneSaucerBullets
	}
}

func updateProjectiles(projectiles []Bullet) bool {
	killedAny := false
	for i := range projectiles {
		b := &projectiles[i]
		b.Life--
		if b.Life <= 0 {
			b.Alive = false
			killedAny = true
			continue
		}
		b.rememberPose()
		b.X = wrapX(b.X + (b.VX >> 4))
		b.Y = wrapY(b.Y + (b.VY >> 4))
	}
	return killedAny
}

func (w *World) updateSaucers() {
	if w.saucerSpawnTimer > 0 {
		w.saucerSpawnTimer--
	}

	isLurking := w.timeSinceLastKill > LurkTimeThresholdFrames
	var spawnThreshold int32
	if isLurking {
		spawnThreshold = LurkSaucerSpawnFast
	}
	maxSaucers := maxSaucersForWave(w.wave)

	if int32(len(w.saucers)) < maxSaucers && w.saucerSpawnTimer <= spawnThreshold {
		w.spawnSaucer()
		if isLurking {
			w.saucerSpawnTimer = w.randomInt(LurkSaucerSpawnFast, LurkSaucerSpawnFast+120)
		} else {
			spawnMin, spawnMax := saucerSpawnRangeForWave(w.wave)
			w.saucerSpawnTimer = w.randomInt(spawnMin, spawnMax)
		}
	}

	// Saucers do not wrap horizontally: they cross the field and are culled
	// off-screen.
	for i := range w.saucers {
		s := &w.saucers[i]
		s.rememberPose()
		s.X += s.VX >> 4
		s.Y = wrapY(s.Y + (s.VY >> 4))

		if s.X < saucerCullMinXQ12_4 || s.X > saucerCullMaxXQ12_4 {
			s.Alive = false
			w.pruneMask |= pruneSaucers
			continue
		}
		if s.DriftTimer > 0 {
			s.DriftTimer--
		}

		if s.DriftTimer <= 0 {
			s.DriftTimer = w.randomInt(48, 120)
			s.VY = w.randomInt(-163, 164)
		}

		if s.FireCooldown > 0 {
			s.FireCooldown--
		}
		if s.FireCooldown <= 0 {
			sx, sy, sr, small := s.X, s.Y, s.Radius, s.Small
			w.spawnSaucerBullet(sx, sy, sr, small)
			cooldownMin, cooldownMax := saucerFireCooldownRange(small, w.wave, w.timeSinceLastKill)
			w.saucers[i].FireCooldown = w.randomInt(cooldownMin, cooldownMax+1)
		}
	}
}

func (w *World) handleCollisions() {
	aliveAsteroids := len(w.asteroids)

	// Ship bullets vs asteroids.
	for bi := range w.bullets {
		if aliveAsteroids == 0 {
			break
		}
		if !w.bullets[bi].Alive {
			continue
		}
		bx, by, br := w.bullets[bi].X, w.bullets[bi].Y, w.bullets[bi].Radius

		for ai := range w.asteroids {
			if !w.asteroids[ai].Alive {
				continue
			}
			a := &w.asteroids[ai]
			if collides(bx, by, br, a.X, a.Y, a.Radius) {
				w.bullets[bi].Alive = false
				w.pruneMask |= pruneBullets
				w.destroyAsteroid(ai, true, &aliveAsteroids)
				break
			}
		}
	}

	// Saucer bullets shatter asteroids too, without awarding score.
	for bi := range w.saucerBullets {
		if aliveAsteroids == 0 {
			break
		}
		if !w.saucerBullets[bi].Alive {
			continue
		}
		bx, by, br := w.saucerBullets[bi].X, w.saucerBullets[bi].Y, w.saucerBullets[bi].Radius

		for ai := range w.asteroids {
			if !w.asteroids[ai].Alive {
				continue
			}
			a := &w.asteroids[ai]
			if collides(bx, by, br, a.X, a.Y, a.Radius) {
				w.saucerBullets[bi].Alive = false
				w.pruneMask |= pruneSaucerBullets
				w.destroyAsteroid(ai, false, &aliveAsteroids)
				break
			}
		}
	}

	// Ship bullets vs saucers.
	for bi := range w.bullets {
		if !w.bullets[bi].Alive {
			continue
		}
		bx, by, br := w.bullets[bi].X, w.bullets[bi].Y, w.bullets[bi].Radius

		for si := range w.saucers {
			if !w.saucers[si].Alive {
				continue
			}
			s := &w.saucers[si]
			if collides(bx, by, br, s.X, s.Y, s.Radius) {
				w.bullets[bi].Alive = false
				s.Alive = false
				w.pruneMask |= pruneBullets | pruneSaucers
				if s.Small {
					w.addScore(ScoreSmallSaucer)
				} else {
					w.addScore(ScoreLargeSaucer)
				}
				break
			}
		}
	}

	// Saucers vs asteroids: the saucer loses, the asteroid survives.
	if aliveAsteroids > 0 {
		for si := range w.saucers {
			if !w.saucers[si].Alive {
				continue
			}
			s := &w.saucers[si]
			for ai := range w.asteroids {
				a := &w.asteroids[ai]
				if !a.Alive {
					continue
				}
				if collides(s.X, s.Y, s.Radius, a.X, a.Y, a.Radius) {
					s.Alive = false
					w.pruneMask |= pruneSaucers
					break
				}
			}
		}
	}

	if !w.ship.CanControl || w.ship.InvulnerableTimer > 0 {
		return
	}

	// Asteroid radii are fudged down slightly against the ship so grazes
	// that look clean on screen do not kill.
	if aliveAsteroids > 0 {
		for ai := range w.asteroids {
			a := &w.asteroids[ai]
			if !a.Alive {
				continue
			}
			adjustedRadius := (a.Radius * 225) >> 8
			if collides(w.ship.X, w.ship.Y, w.ship.Radius, a.X, a.Y, adjustedRadius) {
				w.destroyShip()
				return
			}
		}
	}

	for bi := range w.saucerBullets {
		b := &w.saucerBullets[bi]
		if !b.Alive {
			continue
		}
		if collides(w.ship.X, w.ship.Y, w.ship.Radius, b.X, b.Y, b.Radius) {
			b.Alive = false
			w.pruneMask |= pruneSaucerBullets
			w.destroyShip()
			return
		}
	}

	for si := range w.saucers {
		s := &w.saucers[si]
		if !s.Alive {
			continue
		}
		if collides(w.ship.X, w.ship.Y, w.ship.Radius, s.X, s.Y, s.Radius) {
			s.Alive = false
			w.pruneMask |= pruneSaucers
			w.destroyShip()
			return
		}
	}
}

func (w *World) destroyAsteroid(index int, awardScore bool, aliveAsteroids *int) {
	if index >= len(w.asteroids) {
		return
	}
	a := &w.asteroids[index]
	if !a.Alive {
		return
	}
	a.Alive = false
	if *aliveAsteroids > 0 {
		*aliveAsteroids--
	}
	size, x, y, vx, vy := a.Size, a.X, a.Y, a.VX, a.VY
	w.pruneMask |= pruneAsteroids

	if awardScore {
		w.timeSinceLastKill = 0
		switch size {
		case AsteroidLarge:
			w.addScore(ScoreLargeAsteroid)
		case AsteroidMedium:
			w.addScore(ScoreMediumAsteroid)
		default:
			w.addScore(ScoreSmallAsteroid)
		}
	}

	if size == AsteroidSmall {
		return
	}

	childSize := AsteroidSmall
	if size == AsteroidLarge {
		childSize = AsteroidMedium
	}

	freeSlots := AsteroidCap - *aliveAsteroids
	splitCount := 2
	if freeSlots < splitCount {
		splitCount = freeSlots
	}

	// Children inherit a fraction of the parent's velocity so a split reads
	// as debris, not a fresh spawn.
	for i := 0; i < splitCount; i++ {
		child := w.createAsteroid(childSize, x, y)
		child.VX += (vx * 46) >> 8
		child.VY += (vy * 46) >> 8
		w.asteroids = append(w.asteroids, child)
		*aliveAsteroids++
	}
}

func (w *World) destroyShip() {
	w.queueShipRespawn(ShipRespawnFrames)
	w.lives--

	if w.lives <= 0 {
		w.mode = ModeGameOver
		w.ship.CanControl = false
		w.ship.RespawnTimer = 99999
	}
}

func (w *World) addScore(points uint32) {
	if w.score > ^uint32(0)-points {
		w.score = ^uint32(0)
	} else {
		w.score += points
	}

	for w.score >= w.nextExtraLifeScore {
		w.lives++
		w.nextExtraLifeScore += ExtraLifeScoreStep
	}
}

// pruneDestroyedEntities is the single compaction pass per step. Retention
// is in-place and order preserving, so surviving entities keep their ids and
// their relative iteration order.
func (w *World) pruneDestroyedEntities() {
	if w.pruneMask == 0 {
		return
	}

	if w.pruneMask&pruneAsteroids != 0 {
		w.asteroids = retainAsteroids(w.asteroids)
	}
	if w.pruneMask&pruneBullets != 0 {
		w.bullets = retainBullets(w.bullets)
	}
	if w.pruneMask&pruneSaucers != 0 {
		w.saucers = retainSaucers(w.saucers)
	}
	if w.pruneMask&pruneSaucerBullets != 0 {
		w.saucerBullets = retainBullets(w.saucerBullets)
	}

	w.pruneMask = 0
}

func retainAsteroids(list []Asteroid) []Asteroid {
	kept := list[:0]
	for i := range list {
		if list[i].Alive {
			kept = append(kept, list[i])
		}
	}
	return kept
}

func retainBullets(list []Bullet) []Bullet {
	kept := list[:0]
	for i := range list {
		if list[i].Alive {
			kept = append(kept, list[i])
		}
	}
	return kept
}

func retainSaucers(list []Saucer) []Saucer {
	kept := list[:0]
	for i := range list {
		if list[i].Alive {
			kept = append(kept, list[i])
		}
	}
	return kept
}
