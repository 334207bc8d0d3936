package encounter

import (
	"math"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
)

// Roll band thresholds shared by every action resolver.
const (
	fumbleBand     = 0.10
	prayFumbleBand = 0.15
	critBand       = 0.95
)

// maxRollFor returns the die size a character rolls: veterans graduate from
// the d20 to a d50 at fifteen rebirths and a d100 at thirty.
func maxRollFor(rebirths int) int {
	switch {
	case rebirths >= 30:
		return 100
	case rebirths >= 15:
		return 50
	default:
		return 20
	}
}

// rollOutcome is one tiered action roll.
type rollOutcome struct {
	Roll    int
	MaxRoll int
}

// perc normalizes the roll into (0, 1] for band checks.
func (o rollOutcome) perc() float64 {
	return float64(o.Roll) / float64(o.MaxRoll)
}

// rollAction performs the tiered action roll. The crit modifier raises the
// die's floor; low-rebirth characters have the raise capped at 15 and nobody
// exceeds 45. A pet with a crit chance may redraw the result upward; pass a
// nil pet for actions the pet cannot assist.
//
// Precondition: critMod >= 0; a non-nil pet's CritChance must be in [1, 100].
func rollAction(src dice.Source, critMod, rebirths int, pet *character.Pet) rollOutcome {
	maxRoll := maxRollFor(rebirths)
	mod := 0
	if critMod != 0 {
		mod = int(math.RoundToEven(float64(critMod) / 10))
	}
	if rebirths < 15 && mod > 15 {
		mod = 15
	} else if mod+1 > 45 {
		mod = 45
	}
	roll := dice.Between(src, 1+mod, maxRoll)
	if pet != nil && pet.CritChance > 0 {
		petCrit := dice.Between(src, pet.CritChance, 100)
		switch {
		case petCrit == 100:
			roll = maxRoll
		case petCrit >= 95 && roll <= 25:
			roll = dice.Between(src, maxRoll-5, maxRoll)
		case petCrit >= 95:
			roll = dice.Between(src, roll, maxRoll)
		}
	}
	return rollOutcome{Roll: roll, MaxRoll: maxRoll}
}

// convertedBonus prices an ability-converted fumble: the larger of a flat
// draw and a scaled share of the would-be contribution.
func convertedBonus(src dice.Source, roll, stat, rebirths int) int {
	bonusRoll := dice.Between(src, 5, 15)
	multi := dice.Choice(src, []float64{0.2, 0.3, 0.4, 0.5})
	if scaled := int(float64(roll+stat+rebirths) * multi); scaled > bonusRoll {
		return scaled
	}
	return bonusRoll
}

// floorDiv divides rounding toward negative infinity, matching how stat
// fractions behave for cursed (negative) gear.
//
// Precondition: b > 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// roundHalfEven rounds to the nearest integer, ties to even.
func roundHalfEven(x float64) int64 {
	return int64(math.RoundToEven(x))
}
