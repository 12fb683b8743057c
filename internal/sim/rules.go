package sim

import (
	"github.com/vovakirdan/astrotape/internal/fixedpoint"
	"github.com/vovakirdan/astrotape/internal/tape"
)

// RuleCode names a replay rule. The string forms are stable identifiers that
// appear in verification reports and must never change meaning.
type RuleCode uint8

const (
	RuleGlobalModeLivesConsistency RuleCode = iota
	RuleGlobalWaveNonZero
	RuleGlobalNextExtraLifeScore
	RuleProgressionScoreDelta
	RuleProgressionWaveAdvance
	RuleShipTurnRateStep
	RuleShipSpeedClamp
	RuleShipPositionStep
	RuleShipBounds
	RuleShipAngleRange
	RuleShipCooldownRange
	RuleShipRespawnTimerRange
	RuleShipInvulnerabilityRange
	RulePlayerBulletCooldownBypass
	RulePlayerBulletLimit
	RulePlayerBulletState
	RuleSaucerBulletLimit
	RuleSaucerBulletState
	RuleAsteroidState
	RuleSaucerState
	RuleSaucerCap
)

var ruleCodeNames = [...]string{
	RuleGlobalModeLivesConsistency: "GLOBAL_MODE_LIVES_CONSISTENCY",
	RuleGlobalWaveNonZero:          "GLOBAL_WAVE_NONZERO",
	RuleGlobalNextExtraLifeScore:   "GLOBAL_NEXT_EXTRA_LIFE_SCORE",
	RuleProgressionScoreDelta:      "PROGRESSION_SCORE_DELTA",
	RuleProgressionWaveAdvance:     "PROGRESSION_WAVE_ADVANCE",
	RuleShipTurnRateStep:           "SHIP_TURN_RATE_STEP",
	RuleShipSpeedClamp:             "SHIP_SPEED_CLAMP",
	RuleShipPositionStep:           "SHIP_POSITION_STEP",
	RuleShipBounds:                 "SHIP_BOUNDS",
	RuleShipAngleRange:             "SHIP_ANGLE_RANGE",
	RuleShipCooldownRange:          "SHIP_COOLDOWN_RANGE",
	RuleShipRespawnTimerRange:      "SHIP_RESPAWN_TIMER_RANGE",
	RuleShipInvulnerabilityRange:   "SHIP_INVULNERABILITY_RANGE",
	RulePlayerBulletCooldownBypass: "PLAYER_BULLET_COOLDOWN_BYPASS",
	RulePlayerBulletLimit:          "PLAYER_BULLET_LIMIT",
	RulePlayerBulletState:          "PLAYER_BULLET_STATE",
	RuleSaucerBulletLimit:          "SAUCER_BULLET_LIMIT",
	RuleSaucerBulletState:          "SAUCER_BULLET_STATE",
	RuleAsteroidState:              "ASTEROID_STATE",
	RuleSaucerState:                "SAUCER_STATE",
	RuleSaucerCap:                  "SAUCER_CAP",
}

func (c RuleCode) String() string {
	if int(c) < len(ruleCodeNames) {
		return ruleCodeNames[c]
	}
	return "UNKNOWN_RULE"
}

// ValidateInvariants checks the structural rules that must hold of any world
// state a legal step can produce. The zero return is the common case; a
// RuleCode identifies the first violated rule.
func (w *World) ValidateInvariants() (RuleCode, bool) {
	if w.wave < 1 {
		return RuleGlobalWaveNonZero, false
	}

	modeLivesConsistent := (w.mode == ModePlaying && w.lives > 0) ||
		(w.mode == ModeGameOver && w.lives <= 0)
	if !modeLivesConsistent {
		return RuleGlobalModeLivesConsistency, false
	}

	if w.nextExtraLifeScore <= w.score || w.nextExtraLifeScore < ExtraLifeScoreStep {
		return RuleGlobalNextExtraLifeScore, false
	}

	if !inWorld(w.ship.X, w.ship.Y) {
		return RuleShipBounds, false
	}
	if w.ship.Angle&^0xFF != 0 {
		return RuleShipAngleRange, false
	}
	if w.ship.FireCooldown < 0 {
		return RuleShipCooldownRange, false
	}
	if w.ship.RespawnTimer < 0 {
		return RuleShipRespawnTimerRange, false
	}
	if w.ship.InvulnerableTimer < 0 {
		return RuleShipInvulnerabilityRange, false
	}

	if len(w.bullets) > ShipBulletLimit {
		return RulePlayerBulletLimit, false
	}
	if len(w.saucerBullets) > SaucerBulletLimit {
		return RuleSaucerBulletLimit, false
	}

	for i := range w.bullets {
		b := &w.bullets[i]
		if b.Life <= 0 || !inWorld(b.X, b.Y) {
			return RulePlayerBulletState, false
		}
	}
	for i := range w.saucerBullets {
		b := &w.saucerBullets[i]
		if b.Life <= 0 || !inWorld(b.X, b.Y) {
			return RuleSaucerBulletState, false
		}
	}
	for i := range w.asteroids {
		a := &w.asteroids[i]
		if !inWorld(a.X, a.Y) || a.Angle&^0xFF != 0 {
			return RuleAsteroidState, false
		}
	}

	if int32(len(w.saucers)) > maxSaucersForWave(w.wave) {
		return RuleSaucerCap, false
	}
	for i := range w.saucers {
		s := &w.saucers[i]
		if s.X < saucerCullMinXQ12_4 || s.X > saucerCullMaxXQ12_4 ||
			s.Y < 0 || s.Y >= WorldHeightQ12_4 ||
			s.FireCooldown < 0 || s.DriftTimer < 0 {
			return RuleSaucerState, false
		}
	}

	return 0, true
}

func inWorld(x, y int32) bool {
	return x >= 0 && x < WorldWidthQ12_4 && y >= 0 && y < WorldHeightQ12_4
}

const maxScoreDeltaPerFrame = uint32(ShipBulletLimit) * ScoreSmallSaucer

var scoreEventValues = [5]uint32{
	ScoreLargeAsteroid,
	ScoreMediumAsteroid,
	ScoreSmallAsteroid,
	ScoreLargeSaucer,
	ScoreSmallSaucer,
}

// legalScoreDeltas marks every per-frame score increment reachable by at
// most four scoring events (one per ship bullet in flight).
var legalScoreDeltas = buildLegalScoreDeltaTable()

func buildLegalScoreDeltaTable() []bool {
	table := make([]bool, maxScoreDeltaPerFrame+1)
	table[0] = true

	mark := func(sum uint32) {
		if sum <= maxScoreDeltaPerFrame {
			table[sum] = true
		}
	}
	for _, a := range scoreEventValues {
		mark(a)
		for _, b := range scoreEventValues {
			mark(a + b)
			for _, c := range scoreEventValues {
				mark(a + b + c)
				for _, d := range scoreEventValues {
					mark(a + b + c + d)
				}
			}
		}
	}
	return table
}

func isLegalScoreDelta(delta uint32) bool {
	if delta > maxScoreDeltaPerFrame {
		return false
	}
	return legalScoreDeltas[delta]
}

func maxShipStepSq() int32 {
	return (ShipMaxSpeedSqQ16_16 >> 8) + 4
}

func expectedShipTurnDelta(input tape.FrameInput) int32 {
	switch {
	case input.Left == input.Right:
		return 0
	case input.Left:
		return (256 - ShipTurnSpeedBAM) & 0xFF
	default:
		return ShipTurnSpeedBAM
	}
}

func expectedShipFireCooldown(prev, next *transitionState, input tape.FrameInput, waveAdvanced, shipDied bool) int32 {
	if waveAdvanced || shipDied {
		return 0
	}

	decremented := prev.shipFireCooldown
	if decremented > 0 {
		decremented--
	}
	firePressed := input.Fire && !prev.shipFireLatch

	switch {
	case !prev.shipCanControl:
		if next.shipCanControl {
			return 0
		}
		return decremented
	case firePressed && decremented <= 0 && prev.bullets < ShipBulletLimit:
		return ShipBulletCooldown
	default:
		return decremented
	}
}

func expectedShipFireLatch(input tape.FrameInput, waveAdvanced, shipDied bool) bool {
	if waveAdvanced || shipDied {
		return false
	}
	return input.Fire
}

// validateTransition checks the per-step rules relating one frame's state to
// the next under the frame's input: score deltas must be composable from
// legal scoring events, waves advance by at most one and only into a clean
// spawn, and the ship's turn rate, speed, displacement, cooldown and fire
// latch must match what the stepper could have produced.
func validateTransition(prev, next *transitionState, input tape.FrameInput) (RuleCode, bool) {
	if next.score < prev.score {
		return RuleProgressionScoreDelta, false
	}
	if !isLegalScoreDelta(next.score - prev.score) {
		return RuleProgressionScoreDelta, false
	}

	if next.wave < prev.wave || next.wave > prev.wave+1 {
		return RuleProgressionWaveAdvance, false
	}
	waveAdvanced := next.wave == prev.wave+1
	if waveAdvanced {
		if next.asteroids != waveAsteroidCount(next.wave) || next.saucers != 0 {
			return RuleProgressionWaveAdvance, false
		}
	}

	shipSpeedSq := next.shipVX*next.shipVX + next.shipVY*next.shipVY
	if shipSpeedSq > ShipMaxSpeedSqQ16_16 {
		return RuleShipSpeedClamp, false
	}

	turnDelta := (next.shipAngle - prev.shipAngle) & 0xFF
	if !waveAdvanced {
		if prev.shipCanControl {
			if turnDelta != expectedShipTurnDelta(input) {
				return RuleShipTurnRateStep, false
			}
		} else if !next.shipCanControl && turnDelta != 0 {
			return RuleShipTurnRateStep, false
		}
	}

	shipDied := prev.shipCanControl && !next.shipCanControl &&
		next.shipRespawnTimer >= ShipRespawnFrames
	if !waveAdvanced {
		respawned := !prev.shipCanControl && next.shipCanControl

		if prev.shipCanControl {
			if shipDied {
				// The respawn queue zeroes velocity after movement, so the
				// exact displacement cannot be re-derived; bound it instead.
				dx := fixedpoint.ShortestDeltaQ12_4(prev.shipX, next.shipX, WorldWidthQ12_4)
				dy := fixedpoint.ShortestDeltaQ12_4(prev.shipY, next.shipY, WorldHeightQ12_4)
				if dx*dx+dy*dy > maxShipStepSq() {
					return RuleShipPositionStep, false
				}
			} else {
				expectedX := wrapX(prev.shipX + (next.shipVX >> 4))
				expectedY := wrapY(prev.shipY + (next.shipVY >> 4))
				if next.shipX != expectedX || next.shipY != expectedY {
					return RuleShipPositionStep, false
				}
			}
		} else if !respawned {
			if prev.shipX != next.shipX || prev.shipY != next.shipY {
				return RuleShipPositionStep, false
			}
		}
	}

	if next.shipFireCooldown != expectedShipFireCooldown(prev, next, input, waveAdvanced, shipDied) {
		return RulePlayerBulletCooldownBypass, false
	}
	if next.shipFireLatch != expectedShipFireLatch(input, waveAdvanced, shipDied) {
		return RulePlayerBulletCooldownBypass, false
	}

	return 0, true
}
