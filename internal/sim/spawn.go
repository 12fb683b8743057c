package sim

import "github.com/vovakirdan/astrotape/internal/fixedpoint"

func (w *World) createShip() Ship {
	s := Ship{
		Entity: Entity{
			ID:     w.allocID(),
			X:      shipSpawnXQ12_4,
			Y:      shipSpawnYQ12_4,
			Angle:  int32(shipSpawnAngleBAM),
			Alive:  true,
			Radius: ShipRadius,
		},
		CanControl:        true,
		InvulnerableTimer: ShipInvulnerableFrames,
	}
	s.rememberPose()
	return s
}

func (w *World) shipSpawnPoint() (int32, int32) {
	return shipSpawnXQ12_4, shipSpawnYQ12_4
}

func (w *World) queueShipRespawn(delayFrames int32) {
	w.ship.CanControl = false
	w.ship.RespawnTimer = delayFrames
	w.ship.VX = 0
	w.ship.VY = 0
	w.ship.FireCooldown = 0
	w.ship.InvulnerableTimer = 0
	w.shipFireLatch = false
}

// spawnSafetyScore is the minimum clearance-squared from a candidate point
// to every hazard. bestKnown allows early exit once a candidate is already
// beaten.
func (w *World) spawnSafetyScore(spawnX, spawnY, bestKnown int32) int32 {
	minClearance := int32(1<<31 - 1)

	for i := range w.asteroids {
		a := &w.asteroids[i]
		c := clearanceSq(a.X, a.Y, a.Radius, spawnX, spawnY, w.ship.Radius)
		if c < minClearance {
			minClearance = c
		}
		if minClearance < bestKnown {
			return minClearance
		}
	}
	for i := range w.saucers {
		s := &w.saucers[i]
		c := clearanceSq(s.X, s.Y, s.Radius, spawnX, spawnY, w.ship.Radius)
		if c < minClearance {
			minClearance = c
		}
		if minClearance < bestKnown {
			return minClearance
		}
	}
	for i := range w.bullets {
		b := &w.bullets[i]
		c := clearanceSq(b.X, b.Y, b.Radius, spawnX, spawnY, w.ship.Radius)
		if c < minClearance {
			minClearance = c
		}
		if minClearance < bestKnown {
			return minClearance
		}
	}
	for i := range w.saucerBullets {
		b := &w.saucerBullets[i]
		c := clearanceSq(b.X, b.Y, b.Radius, spawnX, spawnY, w.ship.Radius)
		if c < minClearance {
			minClearance = c
		}
		if minClearance < bestKnown {
			return minClearance
		}
	}

	return minClearance
}

// findBestShipSpawnPoint walks a fixed grid inside the edge padding and picks
// the point with the largest minimum clearance to any hazard, breaking ties
// toward the screen center. Pure integer arithmetic over a fixed iteration
// order keeps the answer identical on every host.
func (w *World) findBestShipSpawnPoint() (int32, int32) {
	minX := shipRespawnEdgePaddingQ12_4
	maxX := WorldWidthQ12_4 - shipRespawnEdgePaddingQ12_4
	minY := shipRespawnEdgePaddingQ12_4
	maxY := WorldHeightQ12_4 - shipRespawnEdgePaddingQ12_4
	centerX, centerY := w.shipSpawnPoint()

	bestX, bestY := centerX, centerY
	bestSafety := int32(-1 << 31)
	bestCenterDist := int32(1<<31 - 1)

	for y := minY; y <= maxY; y += shipRespawnGridStepQ12_4 {
		for x := minX; x <= maxX; x += shipRespawnGridStepQ12_4 {
			safety := w.spawnSafetyScore(x, y, bestSafety)
			centerDist := distanceSq(x, y, centerX, centerY)
			if safety > bestSafety || (safety == bestSafety && centerDist < bestCenterDist) {
				bestX, bestY = x, y
				bestSafety = safety
				bestCenterDist = centerDist
			}
		}
	}

	return bestX, bestY
}

func (w *World) spawnShipAtBestOpenPoint() {
	spawnX, spawnY := w.findBestShipSpawnPoint()

	w.ship.X = spawnX
	w.ship.Y = spawnY
	w.ship.VX = 0
	w.ship.VY = 0
	w.ship.Angle = int32(shipSpawnAngleBAM)
	w.ship.CanControl = true
	w.ship.InvulnerableTimer = ShipInvulnerableFrames
	w.ship.rememberPose()
}

// spawnWave advances the wave counter and scatters its large asteroids,
// rejection-sampling positions away from the ship spawn point with a bounded
// retry budget so a crowded draw can never loop forever.
func (w *World) spawnWave() {
	w.wave++
	w.timeSinceLastKill = 0

	largeCount := waveAsteroidCount(w.wave)
	avoidX, avoidY := w.shipSpawnPoint()

	for i := 0; i < largeCount; i++ {
		x := w.randomInt(0, WorldWidthQ12_4)
		y := w.randomInt(0, WorldHeightQ12_4)

		for guard := 0; guard < 20 && distanceSq(x, y, avoidX, avoidY) < waveSafeDistSqQ24_8; guard++ {
			x = w.randomInt(0, WorldWidthQ12_4)
			y = w.randomInt(0, WorldHeightQ12_4)
		}

		w.asteroids = append(w.asteroids, w.createAsteroid(AsteroidLarge, x, y))
	}

	w.queueShipRespawn(0)
	w.spawnShipAtBestOpenPoint()
}

func (w *World) createAsteroid(size AsteroidSize, x, y int32) Asteroid {
	speedRange := asteroidSpeedRange[size]

	moveAngle := w.randomInt(0, 256)
	speed := w.randomInt(speedRange[0], speedRange[1])
	waveBonus := (w.wave - 1) * 15
	if waveBonus > 128 {
		waveBonus = 128
	}
	speed += (speed * waveBonus) >> 8
	vx, vy := fixedpoint.VelocityQ8_8(uint8(moveAngle), speed)
	startAngle := w.randomInt(0, 256)
	spin := w.randomInt(-3, 4)

	var radius int32
	switch size {
	case AsteroidLarge:
		radius = AsteroidRadiusLarge
	case AsteroidMedium:
		radius = AsteroidRadiusMed
	default:
		radius = AsteroidRadiusSmall
	}

	a := Asteroid{
		Entity: Entity{
			ID:     w.allocID(),
			X:      x,
			Y:      y,
			VX:     vx,
			VY:     vy,
			Angle:  startAngle,
			Alive:  true,
			Radius: radius,
		},
		Size: size,
		Spin: spin,
	}
	a.rememberPose()
	return a
}

func (w *World) spawnShipBullet() {
	dx, dy := fixedpoint.DisplaceQ12_4(uint8(w.ship.Angle), w.ship.Radius+6)
	startX := wrapX(w.ship.X + dx)
	startY := wrapY(w.ship.Y + dy)

	// Faster ships shoot slightly faster bullets, on top of inheriting the
	// ship's velocity.
	absVX, absVY := w.ship.VX, w.ship.VY
	if absVX < 0 {
		absVX = -absVX
	}
	if absVY < 0 {
		absVY = -absVY
	}
	shipSpeedApprox := ((absVX + absVY) * 3) >> 2
	bulletSpeed := ShipBulletSpeedQ8_8 + ((shipSpeedApprox * 89) >> 8)
	bvx, bvy := fixedpoint.VelocityQ8_8(uint8(w.ship.Angle), bulletSpeed)

	b := Bullet{
		Entity: Entity{
			ID:     w.allocID(),
			X:      startX,
			Y:      startY,
			VX:     w.ship.VX + bvx,
			VY:     w.ship.VY + bvy,
			Alive:  true,
			Radius: BulletRadius,
		},
		Life: ShipBulletLifetime,
	}
	b.rememberPose()
	w.bullets = append(w.bullets, b)
}

func (w *World) spawnSaucer() {
	enterFromLeft := w.rng.Next()&1 == 0
	isLurking := w.timeSinceLastKill > LurkTimeThresholdFrames
	var smallPct uint32
	switch {
	case isLurking:
		smallPct = 90
	case w.score > 4000:
		smallPct = 70
	default:
		smallPct = 22
	}
	small := w.rng.Next()%100 < smallPct
	speed := SaucerSpeedLargeQ8_8
	radius := SaucerRadiusLarge
	if small {
		speed = SaucerSpeedSmallQ8_8
		radius = SaucerRadiusSmall
	}

	startX := saucerStartXRightQ12_4
	vx := -speed
	if enterFromLeft {
		startX = saucerStartXLeftQ12_4
		vx = speed
	}
	startY := w.randomInt(saucerStartYMinQ12_4, saucerStartYMaxQ12_4)
	vy := w.randomInt(-94, 95)
	cooldownMin, cooldownMax := saucerFireCooldownRange(small, w.wave, w.timeSinceLastKill)
	fireCooldown := w.randomInt(cooldownMin, cooldownMax+1)
	driftTimer := w.randomInt(48, 120)

	s := Saucer{
		Entity: Entity{
			ID:     w.allocID(),
			X:      startX,
			Y:      startY,
			VX:     vx,
			VY:     vy,
			Alive:  true,
			Radius: radius,
		},
		Small:        small,
		FireCooldown: fireCooldown,
		DriftTimer:   driftTimer,
	}
	s.rememberPose()
	w.saucers = append(w.saucers, s)
}

func (w *World) spawnSaucerBullet(saucerX, saucerY, saucerRadius int32, saucerSmall bool) {
	if len(w.saucerBullets) >= SaucerBulletLimit {
		return
	}

	var shotAngle int32
	if saucerSmall {
		dx := fixedpoint.ShortestDeltaQ12_4(saucerX, w.ship.X, WorldWidthQ12_4)
		dy := fixedpoint.ShortestDeltaQ12_4(saucerY, w.ship.Y, WorldHeightQ12_4)
		targetAngle := int32(fixedpoint.Atan2BAM(dy, dx))
		errorBAM := smallSaucerAimErrorBAM(w.wave, w.timeSinceLastKill)
		shotAngle = (targetAngle + w.randomInt(-errorBAM, errorBAM+1)) & 0xFF
	} else {
		shotAngle = w.randomInt(0, 256)
	}

	vx, vy := fixedpoint.VelocityQ8_8(uint8(shotAngle), SaucerBulletSpeed)
	offDX, offDY := fixedpoint.DisplaceQ12_4(uint8(shotAngle), saucerRadius+4)

	b := Bullet{
		Entity: Entity{
			ID:     w.allocID(),
			X:      wrapX(saucerX + offDX),
			Y:      wrapY(saucerY + offDY),
			VX:     vx,
			VY:     vy,
			Alive:  true,
			Radius: BulletRadius,
		},
		Life: SaucerBulletLifetime,
	}
	b.rememberPose()
	w.saucerBullets = append(w.saucerBullets, b)
}
