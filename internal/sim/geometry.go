package sim

import "github.com/vovakirdan/astrotape/internal/fixedpoint"

func wrapX(x int32) int32 {
	return fixedpoint.WrapQ12_4(x, WorldWidthQ12_4)
}

func wrapY(y int32) int32 {
	return fixedpoint.WrapQ12_4(y, WorldHeightQ12_4)
}

// distanceSq is the squared toroidal distance between two Q12.4 points
// (Q24.8 result).
func distanceSq(ax, ay, bx, by int32) int32 {
	dx := fixedpoint.ShortestDeltaQ12_4(ax, bx, WorldWidthQ12_4)
	dy := fixedpoint.ShortestDeltaQ12_4(ay, by, WorldHeightQ12_4)
	return dx*dx + dy*dy
}

// collides reports circle overlap on the torus. The per-axis reject keeps
// the common miss case to one shortest-delta computation.
func collides(ax, ay, ar, bx, by, br int32) bool {
	hitDist := (ar + br) << 4
	dx := fixedpoint.ShortestDeltaQ12_4(ax, bx, WorldWidthQ12_4)
	if dx < -hitDist || dx > hitDist {
		return false
	}
	dy := fixedpoint.ShortestDeltaQ12_4(ay, by, WorldHeightQ12_4)
	if dy < -hitDist || dy > hitDist {
		return false
	}
	return dx*dx+dy*dy <= hitDist*hitDist
}

// clearanceSq is the squared distance between a hazard and a candidate spawn
// point minus the squared contact distance: positive means open space.
func clearanceSq(hx, hy, hr, sx, sy, sr int32) int32 {
	hitDist := (hr + sr) << 4
	dx := fixedpoint.ShortestDeltaQ12_4(hx, sx, WorldWidthQ12_4)
	dy := fixedpoint.ShortestDeltaQ12_4(hy, sy, WorldHeightQ12_4)
	return dx*dx + dy*dy - hitDist*hitDist
}
