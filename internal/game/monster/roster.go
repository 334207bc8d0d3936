// Package monster — roster selection.
package monster

import (
	"math"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/difficulty"
)

// maxDuplicates bounds how many copies of a qualifying non-boss monster
// enter the selection pool, keeping commons far more likely than bosses.
const maxDuplicates = 15

// fallbackStatFactor bounds the no-history eligibility check: a monster
// qualifies when its larger side stat is at most this multiple of the
// requesting character's best attribute.
const fallbackStatFactor = 5

// PickChallenge selects the next adversary from catalog.
//
// With history (band.MaxStat > 0) a monster qualifies when its main stat for
// the band's type lies within [MinStat*0.5, MaxStat*1.2]. Without history,
// the requester's own attributes bound the pick instead:
// max(hp, dipl) <= max(att, int, cha) * 5. Qualifying non-boss monsters
// enter the pool 1 to 15 times each; bosses and minibosses enter once. A nil
// character or an empty pool falls back to a uniform pick over the catalog.
//
// Precondition: catalog must be non-empty and src must not be nil. Panics on
// an empty catalog.
func PickChallenge(catalog []Monster, band difficulty.StatRange, c *character.Character, src dice.Source) Monster {
	if len(catalog) == 0 {
		panic("monster: PickChallenge called with empty catalog")
	}
	if c == nil {
		return uniformFallback(catalog, src)
	}

	var pool []Monster
	for _, m := range catalog {
		if !eligible(m, band, c) {
			continue
		}
		if m.Boss || m.Miniboss != nil {
			pool = append(pool, m)
			continue
		}
		for n := dice.Between(src, 1, maxDuplicates); n > 0; n-- {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		return uniformFallback(catalog, src)
	}
	return dice.Choice(src, pool)
}

func eligible(m Monster, band difficulty.StatRange, c *character.Character) bool {
	if band.MaxStat > 0 {
		main := m.MainStat(band.StatType)
		return band.MinStat*0.5 <= main && main <= band.MaxStat*1.2
	}
	best := c.Att()
	if v := c.Int(); v > best {
		best = v
	}
	if v := c.Cha(); v > best {
		best = v
	}
	return math.Max(m.HP, m.Dipl) <= float64(best*fallbackStatFactor)
}

// uniformFallback keeps the legacy draw shape, which sampled from the
// catalog concatenated three times.
func uniformFallback(catalog []Monster, src dice.Source) Monster {
	return catalog[src.Intn(len(catalog)*3)%len(catalog)]
}
