// Package monster — dynamic stat scaling and the transcendence roll.
package monster

import (
	"github.com/cory-johannsen/adventure/internal/game/dice"
)

// scaleTier is one band of the win-rate ladder. statLo/statHi multiply hp
// and dipl before the half-open redraw; defLo/defHi are the inclusive
// percent magnitudes applied to each defense, added when harden is set and
// subtracted otherwise.
type scaleTier struct {
	minWin float64
	statLo float64
	statHi float64
	defLo  int
	defHi  int
	harden bool
}

var scaleTiers = []scaleTier{
	{minWin: 0.90, statLo: 2.0, statHi: 3.0, defLo: 25, defHi: 29, harden: true},
	{minWin: 0.75, statLo: 1.5, statHi: 2.0, defLo: 15, defHi: 24, harden: true},
	{minWin: 0.50, statLo: 1.0, statHi: 1.5, defLo: 1, defHi: 14, harden: true},
	{minWin: 0.35, statLo: 0.9, statHi: 1.0, defLo: 1, defHi: 14},
	{minWin: 0.15, statLo: 0.8, statHi: 0.9, defLo: 15, defHi: 24},
	{statLo: 0.6, statHi: 0.8, defLo: 25, defHi: 29},
}

func tierFor(winPercent float64) scaleTier {
	for _, t := range scaleTiers[:len(scaleTiers)-1] {
		if winPercent >= t.minWin {
			return t
		}
	}
	return scaleTiers[len(scaleTiers)-1]
}

// randRange draws a uniform int in the half-open range [lo, hi), swapping
// the bounds when inverted and returning the bound itself when equal.
func randRange(src dice.Source, lo, hi int) int {
	switch {
	case lo < hi:
		return dice.Between(src, lo, hi-1)
	case hi < lo:
		return dice.Between(src, hi, lo-1)
	default:
		return lo
	}
}

func defenseDelta(src dice.Source, base float64, t scaleTier) float64 {
	pct := float64(dice.Between(src, t.defLo, t.defHi)) / 100
	if !t.harden {
		pct = -pct
	}
	return base * pct
}

// ScaleStats returns a copy of m with hp, dipl, and defenses adjusted for
// the guild's recent win rate. Guilds winning at least 90% of raids face
// monsters at 2x-3x side stats with hardened defenses; guilds below 15%
// get 0.6x-0.8x with softened defenses, and four tiers grade in between.
// Defense deltas are signed fractions of the base value and may push a
// defense below the working floor; callers clamp at use time.
//
// Precondition: m has passed Validate; src must not be nil.
// Postcondition: HP and Dipl are whole numbers within the tier's multiplier
// band of the base stats.
func ScaleStats(m Monster, winPercent float64, src dice.Source) Monster {
	t := tierFor(winPercent)
	scaled := m
	scaled.ApplyDefaults()

	pdefDelta := defenseDelta(src, scaled.PDef, t)
	mdefDelta := defenseDelta(src, scaled.MDef, t)
	cdefDelta := defenseDelta(src, scaled.CDef, t)
	scaled.HP = float64(randRange(src, int(m.HP*t.statLo), int(m.HP*t.statHi)))
	scaled.Dipl = float64(randRange(src, int(m.Dipl*t.statLo), int(m.Dipl*t.statHi)))
	scaled.PDef += pdefDelta
	scaled.MDef += mdefDelta
	scaled.CDef += cdefDelta
	return scaled
}

// transcendedRoll is the single winning value of the 0..10 spawn draw.
const transcendedRoll = 5

// Transcendence is the outcome of the spawn-time draw: the global scalar
// applied to the monster's hp and dipl thresholds, and whether the spawn is
// an ascended variant.
type Transcendence struct {
	Stats       float64
	Transcended bool
}

// RollTranscendence draws the 1-in-11 transcendence chance for a spawn
// requested by a character with the given rebirth count. A winning draw
// ascends the monster with scalar 2 plus a rebirth bonus; veterans past ten
// rebirths face a scalar above 1 even on a losing draw.
//
// Postcondition: Stats >= 1; Transcended implies Stats >= 2.
func RollTranscendence(rebirths int, src dice.Source) Transcendence {
	bonus := rebirths/10 - 1
	if bonus < 0 {
		bonus = 0
	}
	if dice.Between(src, 0, 10) == transcendedRoll {
		return Transcendence{Stats: 2 + float64(bonus), Transcended: true}
	}
	if rebirths >= 10 {
		return Transcendence{Stats: 1 + float64(bonus)/2}
	}
	return Transcendence{Stats: 1}
}
