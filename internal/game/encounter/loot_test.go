package encounter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

// countingSource counts draws on the way through to the wrapped source.
type countingSource struct {
	src   dice.Source
	draws int
}

func (c *countingSource) Intn(n int) int {
	c.draws++
	return c.src.Intn(n)
}

func TestRollLootNothingWithoutVictory(t *testing.T) {
	counting := &countingSource{src: script(0)}
	fx := newFixture(t, counting)
	sess := openSession(t, monsterParams(grunt()))
	res := fx.r.newResolution(context.Background(), sess)
	res.hp = 900

	assert.Zero(t, fx.r.rollLoot(res, false, false, false, false))
	assert.Zero(t, fx.r.rollLoot(res, true, true, true, false), "a failed gate pays nothing")
	assert.Zero(t, counting.draws, "no victory, no dice")
}

func TestRollLootAmountTiers(t *testing.T) {
	cases := []struct {
		name      string
		hp, dipl  int64
		slain     bool
		persuaded bool
		rolls     []int
		want      treasure.Treasure
	}{
		{name: "tier 80 hit", hp: 80, slain: true, rolls: []int{0}, want: treasure.Treasure{Normal: 1}},
		{name: "tier 80 miss", hp: 80, slain: true, rolls: []int{1}},
		{name: "below every tier", hp: 79, slain: true, rolls: []int{0}},
		{name: "tier 300 hit", hp: 300, slain: true, rolls: []int{1, 2}, want: treasure.Treasure{Normal: 1, Rare: 1}},
		{name: "tier 300 miss", hp: 300, slain: true, rolls: []int{2}},
		{name: "tier 500 hit", hp: 500, slain: true, rolls: []int{4, 0}, want: treasure.Treasure{Epic: 1}},
		{name: "tier 700 hit", hp: 700, slain: true, rolls: []int{6, 2}, want: treasure.Treasure{Legendary: 1, Ascended: 1}},
		{
			name: "dual victory sums the pools", hp: 400, dipl: 300, slain: true, persuaded: true,
			rolls: []int{6, 0}, want: treasure.Treasure{Epic: 1},
		},
		{
			name: "persuasion reads the talk pool", hp: 900, dipl: 300, persuaded: true,
			rolls: []int{1, 0}, want: treasure.Treasure{Normal: 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t, script(tc.rolls...))
			sess := openSession(t, monsterParams(grunt()))
			res := fx.r.newResolution(context.Background(), sess)
			res.hp = tc.hp
			res.dipl = tc.dipl

			assert.Equal(t, tc.want, fx.r.rollLoot(res, tc.slain, tc.persuaded, false, false))
		})
	}
}

func TestRollLootKeyedPools(t *testing.T) {
	t.Run("miniboss", func(t *testing.T) {
		counting := &countingSource{src: script(9, 1)}
		fx := newFixture(t, counting)
		p := monsterParams(grunt())
		p.Miniboss = miniboss(monster.RequireMembers, "2")
		sess := openSession(t, p)
		res := fx.r.newResolution(context.Background(), sess)

		got := fx.r.rollLoot(res, true, false, false, false)

		// The quality die is thrown and discarded before the keyed draw.
		assert.Equal(t, treasure.Treasure{Epic: 1, Legendary: 1, Ascended: 1}, got)
		assert.Equal(t, 2, counting.draws)
	})

	t.Run("boss adds a bonus chest", func(t *testing.T) {
		counting := &countingSource{src: script(0, 0, 4)}
		fx := newFixture(t, counting)
		p := monsterParams(grunt())
		p.Boss = true
		sess := openSession(t, p)
		res := fx.r.newResolution(context.Background(), sess)

		got := fx.r.rollLoot(res, true, false, false, false)

		assert.Equal(t, treasure.Treasure{Epic: 3, Legendary: 1, Ascended: 1}, got)
		assert.Equal(t, 3, counting.draws)
	})

	t.Run("transcended", func(t *testing.T) {
		fx := newFixture(t, script(0, 3))
		p := monsterParams(grunt())
		p.Transcended = true
		sess := openSession(t, p)
		res := fx.r.newResolution(context.Background(), sess)

		got := fx.r.rollLoot(res, true, false, false, false)

		assert.Equal(t, treasure.Treasure{Set: 1}, got)
	})

	t.Run("transcended boss", func(t *testing.T) {
		fx := newFixture(t, script(0, 1, 99))
		p := monsterParams(grunt())
		p.Boss = true
		p.Transcended = true
		sess := openSession(t, p)
		res := fx.r.newResolution(context.Background(), sess)

		got := fx.r.rollLoot(res, true, false, false, false)

		// Bonus d100 of 100 falls past both ceilings into an epic chest.
		assert.Equal(t, treasure.Treasure{Epic: 1, Ascended: 1, Set: 1}, got)
	})
}

func TestRollLootBossBonusCeilings(t *testing.T) {
	cases := []struct {
		name string
		easy bool
		d100 int
		want treasure.Treasure
	}{
		{name: "easy ascended", easy: true, d100: 4, want: treasure.Treasure{Epic: 3, Legendary: 1, Ascended: 1}},
		{name: "easy legendary", easy: true, d100: 14, want: treasure.Treasure{Epic: 3, Legendary: 2}},
		{name: "easy epic", easy: true, d100: 99, want: treasure.Treasure{Epic: 4, Legendary: 1}},
		{name: "hard ascended ceiling is looser", easy: false, d100: 24, want: treasure.Treasure{Epic: 1, Legendary: 2, Ascended: 2}},
		{name: "hard legendary ceiling is looser", easy: false, d100: 44, want: treasure.Treasure{Epic: 1, Legendary: 3, Ascended: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t, script(0, 0, tc.d100))
			p := monsterParams(grunt())
			p.Boss = true
			p.EasyMode = tc.easy
			sess := openSession(t, p)
			res := fx.r.newResolution(context.Background(), sess)

			assert.Equal(t, tc.want, fx.r.rollLoot(res, true, false, false, false))
		})
	}
}

func TestRollLootCritAddsANormalChest(t *testing.T) {
	t.Run("on top of a tier", func(t *testing.T) {
		fx := newFixture(t, script(0))
		sess := openSession(t, monsterParams(grunt()))
		res := fx.r.newResolution(context.Background(), sess)
		res.hp = 80

		assert.Equal(t, treasure.Treasure{Normal: 2}, fx.r.rollLoot(res, true, false, false, true))
	})

	t.Run("alone on a missed tier", func(t *testing.T) {
		fx := newFixture(t, script(1))
		sess := openSession(t, monsterParams(grunt()))
		res := fx.r.newResolution(context.Background(), sess)
		res.hp = 80

		assert.Equal(t, treasure.Treasure{Normal: 1}, fx.r.rollLoot(res, true, false, false, true))
	})
}

func TestTrapLootTableIsFullyStocked(t *testing.T) {
	assert.Len(t, trapLoot, 9)
	for i, bundle := range trapLoot {
		assert.NotEqual(t, treasure.Treasure{}, bundle, "bundle %d pays nothing", i)
	}
}
