package core

import (
	"math"

	"playbook/internal/model"
)

// Margins keeping a player footprint clear of the scrimmage line. The defense
// margin differs between the normal and flipped orientations; both values are
// carried over from the established field layouts and must stay as they are.
const (
	normalOffenseMargin  = 15
	normalDefenseMargin  = 15
	flippedOffenseMargin = 15
	flippedDefenseMargin = 10
)

// ConstrainPosition clamps a player position to the legal window for its team.
//
// The clamp boundary is always derived from the nominal mid-line at
// fieldHeight*4/6. The actual center point is used only to detect whether the
// field orientation is flipped: whichever of the normal (4/6) and flipped
// (2/6) candidate lines the center sits closer to wins. A nil center means
// not flipped. The nominal/actual asymmetry is intentional.
//
// Pure and idempotent: constraining an already-constrained position returns
// it unchanged.
func ConstrainPosition(x, y float64, team model.Team, fieldWidth, fieldHeight float64, center *model.Point, size float64) (float64, float64) {
	half := size / 2
	midline := fieldHeight * 4 / 6

	flipped := false
	if center != nil {
		normalLine := fieldHeight * 4 / 6
		flippedLine := fieldHeight * 2 / 6
		flipped = math.Abs(center.Y-flippedLine) < math.Abs(center.Y-normalLine)
	}

	x = clamp(x, half, fieldWidth-half)

	var minY, maxY float64
	switch {
	case !flipped && team == model.TeamOffense:
		minY = midline + normalOffenseMargin + half
		maxY = fieldHeight - half
	case !flipped && team == model.TeamDefense:
		minY = half
		maxY = midline - normalDefenseMargin - half
	case flipped && team == model.TeamOffense:
		minY = half
		maxY = midline - flippedOffenseMargin - half
	default: // flipped defense
		minY = midline + flippedDefenseMargin + half
		maxY = fieldHeight - half
	}

	return x, clamp(y, minY, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
