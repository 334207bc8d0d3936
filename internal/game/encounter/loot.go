package encounter

import (
	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

// trapLoot is the bundle pool behind a monster-less lure: always generous,
// drawn uniformly.
var trapLoot = []treasure.Treasure{
	{Set: 1},
	{Ascended: 1, Set: 2},
	{Epic: 3, Legendary: 1},
	{Legendary: 3, Ascended: 2},
	{Epic: 1, Legendary: 3, Set: 1},
	{Epic: 1, Legendary: 2, Ascended: 1},
	{Epic: 1, Legendary: 5, Ascended: 2, Set: 1},
	{Epic: 1, Legendary: 5, Ascended: 1, Set: 1},
	{Epic: 1, Legendary: 1, Ascended: 1, Set: 1},
}

// lootTables is one difficulty's chest schedule. The keyed pools are drawn
// uniformly; the amount tiers additionally gate on the d10 quality roll.
type lootTables struct {
	transcendedBoss []treasure.Treasure
	transcended     []treasure.Treasure
	boss            []treasure.Treasure
	miniboss        []treasure.Treasure
	tier700         []treasure.Treasure
	tier500         []treasure.Treasure
	tier300         []treasure.Treasure
	tier80          treasure.Treasure

	// Boss kills always add one bonus chest; the d100 ceilings pick its
	// rarity.
	ascendedCeil  int
	legendaryCeil int
}

var easyLoot = lootTables{
	transcendedBoss: []treasure.Treasure{
		{Epic: 1, Legendary: 5, Ascended: 2, Set: 1},
		{Ascended: 1, Set: 1},
	},
	transcended: []treasure.Treasure{
		{Epic: 1, Legendary: 5, Ascended: 1, Set: 1},
		{Epic: 1, Legendary: 3, Set: 1},
		{Epic: 1, Legendary: 1, Ascended: 1, Set: 1},
		{Set: 1},
	},
	boss: []treasure.Treasure{
		{Epic: 3, Legendary: 1},
		{Epic: 1, Legendary: 2, Ascended: 1},
		{Legendary: 3, Ascended: 2},
	},
	miniboss: []treasure.Treasure{
		{Normal: 1, Rare: 1, Epic: 1},
		{Epic: 1, Legendary: 1, Ascended: 1},
		{Epic: 2, Legendary: 2},
		{Rare: 1, Legendary: 2, Ascended: 1},
	},
	tier700: []treasure.Treasure{
		{Epic: 1},
		{Rare: 1},
		{Legendary: 1, Ascended: 1},
	},
	tier500: []treasure.Treasure{
		{Epic: 1},
		{Rare: 1},
		{Rare: 1, Epic: 1},
	},
	tier300: []treasure.Treasure{
		{Normal: 1},
		{Rare: 1},
		{Normal: 1, Rare: 1},
	},
	tier80:        treasure.Treasure{Normal: 1},
	ascendedCeil:  10,
	legendaryCeil: 20,
}

var hardLoot = lootTables{
	transcendedBoss: []treasure.Treasure{
		{Epic: 1, Legendary: 5, Ascended: 4, Set: 2},
		{Epic: 3, Legendary: 4, Ascended: 5, Set: 2},
	},
	transcended: []treasure.Treasure{
		{Epic: 1, Legendary: 4, Ascended: 2, Set: 1},
		{Epic: 1, Legendary: 1, Ascended: 2, Set: 1},
	},
	boss: []treasure.Treasure{
		{Epic: 1, Legendary: 2, Ascended: 1},
		{Legendary: 3, Ascended: 2},
	},
	miniboss: []treasure.Treasure{
		{Epic: 2, Legendary: 2, Ascended: 3},
		{Rare: 1, Legendary: 2, Ascended: 2},
	},
	tier700: []treasure.Treasure{
		{Legendary: 2, Ascended: 2},
		{Rare: 1, Epic: 2, Legendary: 1},
	},
	tier500: []treasure.Treasure{
		{Epic: 2},
		{Rare: 1, Epic: 2, Legendary: 1},
	},
	tier300: []treasure.Treasure{
		{Rare: 2},
		{Normal: 1, Rare: 2, Epic: 1},
	},
	tier80:        treasure.Treasure{Normal: 3},
	ascendedCeil:  30,
	legendaryCeil: 50,
}

// rollLoot draws the chest bundle for a resolved monster encounter. Failures
// and losses earn nothing; the trap branch draws from trapLoot instead and
// never reaches here.
func (r *Resolver) rollLoot(res *resolution, slain, persuaded, failed, crit bool) treasure.Treasure {
	var t treasure.Treasure
	if !(slain || persuaded) || failed {
		return t
	}
	tables := hardLoot
	if res.sess.EasyMode {
		tables = easyLoot
	}
	// The quality die is thrown before the tier is known; keyed pools
	// ignore it.
	roll := dice.Between(r.src, 1, 10)
	var amount int64
	switch {
	case slain && persuaded:
		amount = res.hp + res.dipl
	case slain:
		amount = res.hp
	default:
		amount = res.dipl
	}
	switch {
	case res.sess.Transcended && res.sess.Boss:
		t = dice.Choice(r.src, tables.transcendedBoss)
	case res.sess.Transcended:
		t = dice.Choice(r.src, tables.transcended)
	case res.sess.Boss:
		t = dice.Choice(r.src, tables.boss)
	case res.sess.Miniboss != nil:
		t = dice.Choice(r.src, tables.miniboss)
	case amount >= 700:
		if roll <= 7 {
			t = dice.Choice(r.src, tables.tier700)
		}
	case amount >= 500:
		if roll <= 5 {
			t = dice.Choice(r.src, tables.tier500)
		}
	case amount >= 300:
		if roll <= 2 {
			t = dice.Choice(r.src, tables.tier300)
		}
	case amount >= 80:
		if roll == 1 {
			t = tables.tier80
		}
	}
	if res.sess.Boss {
		bonus := dice.Between(r.src, 1, 100)
		switch {
		case bonus <= tables.ascendedCeil:
			t.Ascended++
		case bonus <= tables.legendaryCeil:
			t.Legendary++
		default:
			t.Epic++
		}
	}
	if crit {
		t.Normal++
	}
	return t
}
