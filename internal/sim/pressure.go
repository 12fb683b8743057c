package sim

import "github.com/vovakirdan/astrotape/internal/fixedpoint"

// Difficulty pressure is an integer percentage in [0, 100] derived from the
// wave number and how long the player has gone without a kill. Higher
// pressure means saucers spawn sooner, fire faster and aim better; it is the
// anti-stalling mechanic, and staying in integer percent arithmetic keeps it
// reproducible.

// waveAsteroidCount is the locked per-wave large asteroid ramp.
func waveAsteroidCount(wave int32) int {
	if wave <= 4 {
		return int(4 + (wave-1)*2)
	}
	n := 10 + (wave - 4)
	if n > 16 {
		n = 16
	}
	return int(n)
}

func maxSaucersForWave(wave int32) int32 {
	switch {
	case wave < 4:
		return 1
	case wave < 7:
		return 2
	default:
		return 3
	}
}

func saucerSpawnRangeForWave(wave int32) (int32, int32) {
	waveMultPct := 100 - (wave-1)*8
	if waveMultPct < 40 {
		waveMultPct = 40
	}
	return (SaucerSpawnMinFrames * waveMultPct) / 100, (SaucerSpawnMaxFrames * waveMultPct) / 100
}

func saucerWavePressurePct(wave int32) int32 {
	return fixedpoint.ClampI32((wave-1)*8, 0, 100)
}

func saucerLurkPressurePct(timeSinceLastKill int32) int32 {
	over := timeSinceLastKill - LurkTimeThresholdFrames
	if over < 0 {
		over = 0
	}
	return fixedpoint.ClampI32((over*100)/(LurkTimeThresholdFrames*2), 0, 100)
}

func saucerPressurePct(wave, timeSinceLastKill int32) int32 {
	wavePressure := saucerWavePressurePct(wave)
	lurkPressure := saucerLurkPressurePct(timeSinceLastKill)
	p := wavePressure + (lurkPressure*50)/100
	if p > 100 {
		p = 100
	}
	return p
}

// saucerFireCooldownRange interpolates each saucer type's cooldown window
// from its relaxed base toward its floor as pressure rises.
func saucerFireCooldownRange(small bool, wave, timeSinceLastKill int32) (int32, int32) {
	pressure := saucerPressurePct(wave, timeSinceLastKill)

	var baseMin, baseMax, floorMin, floorMax int32
	if small {
		baseMin, baseMax, floorMin, floorMax = 42, 68, 22, 40
	} else {
		baseMin, baseMax, floorMin, floorMax = 66, 96, 36, 56
	}

	min := baseMin - ((baseMin-floorMin)*pressure)/100
	max := baseMax - ((baseMax-floorMax)*pressure)/100
	if max <= min {
		max = min + 1
	}
	return min, max
}

// smallSaucerAimErrorBAM shrinks the aimed shot's error cone from 22 BAM
// units down to 3 as pressure rises.
func smallSaucerAimErrorBAM(wave, timeSinceLastKill int32) int32 {
	pressure := saucerPressurePct(wave, timeSinceLastKill)
	const baseError, minError = 22, 3
	return fixedpoint.ClampI32(baseError-((baseError-minError)*pressure)/100, minError, baseError)
}
