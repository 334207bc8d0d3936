package encounter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/session"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

func TestRewardPartyScalesWithRawStats(t *testing.T) {
	// Intelligence pads experience, luck and attack pad currency, both read
	// from the raw (rebirth plus gear) stat line. The clamps bite at 250
	// and 1000 respectively.
	sage := &equipment.Item{Name: "Sage Ring", Slots: []equipment.Slot{equipment.SlotRing}, Int: 196, Att: 70, Luck: 22}
	hoard := &equipment.Item{Name: "Hoard Ring", Slots: []equipment.Slot{equipment.SlotRing}, Int: 10000, Att: 20000}
	vex := character.NewBuilder("vex", "vex").Rebirths(2).Wearing(sage).MustBuild()
	whale := character.NewBuilder("whale", "whale").Wearing(hoard).MustBuild()
	fx := newFixture(t, script(0, 0), vex, whale)
	sess := openSession(t, monsterParams(grunt()),
		join{"vex", session.ActionFight},
		join{"whale", session.ActionMagic},
	)
	res := fx.r.newResolution(context.Background(), sess)

	rewards := fx.r.rewardParty(context.Background(), res, []string{"vex", "whale"}, 100, treasure.Treasure{Rare: 2})

	require.Equal(t, []Reward{
		{UserID: "vex", XP: 400, CP: 200, Treasure: treasure.Treasure{Rare: 2}},
		{UserID: "whale", XP: 2600, CP: 10100, Treasure: treasure.Treasure{Rare: 2}},
	}, rewards)
}

func TestRewardPartyHardModeBoostsOnlyExperience(t *testing.T) {
	fx := newFixture(t, script(0), hero("ana", 0))
	p := monsterParams(grunt())
	p.EasyMode = false
	sess := openSession(t, p, join{"ana", session.ActionFight})
	res := fx.r.newResolution(context.Background(), sess)

	rewards := fx.r.rewardParty(context.Background(), res, []string{"ana"}, 100, treasure.Treasure{})

	require.Len(t, rewards, 1)
	assert.Equal(t, int64(200), rewards[0].XP)
	assert.Equal(t, int64(100), rewards[0].CP)
}

func TestRewardPartyWeekdayBonus(t *testing.T) {
	fx := newFixture(t, script(0), hero("ana", 0))
	for _, day := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		fx.game.DailyBonuses[day] = 0.5
	}
	sess := openSession(t, monsterParams(grunt()), join{"ana", session.ActionFight})
	res := fx.r.newResolution(context.Background(), sess)

	rewards := fx.r.rewardParty(context.Background(), res, []string{"ana"}, 100, treasure.Treasure{})

	require.Len(t, rewards, 1)
	assert.Equal(t, int64(150), rewards[0].XP)
	assert.Equal(t, int64(150), rewards[0].CP)
}

func TestRewardPartyRangerPetBoon(t *testing.T) {
	ranger := func(pet *character.Pet) *character.Character {
		return character.NewBuilder("rng", "rng").Class(character.ClassRanger).WithPet(pet).MustBuild()
	}

	t.Run("boon on a five", func(t *testing.T) {
		fx := newFixture(t, script(4), ranger(&character.Pet{Name: "Hawk", Bonus: 2}))
		sess := openSession(t, monsterParams(grunt()), join{"rng", session.ActionFight})
		res := fx.r.newResolution(context.Background(), sess)

		rewards := fx.r.rewardParty(context.Background(), res, []string{"rng"}, 100, treasure.Treasure{})

		require.Len(t, rewards, 1)
		assert.Equal(t, int64(300), rewards[0].XP)
		assert.Equal(t, int64(300), rewards[0].CP)
		require.Len(t, res.events, 1)
		assert.Equal(t, EventPetBoon, res.events[0].Kind)
		assert.Equal(t, 2.0, res.events[0].Amount)
	})

	t.Run("always-on companion skips the gamble", func(t *testing.T) {
		src := script(0)
		fx := newFixture(t, src, ranger(&character.Pet{Name: "Hawk", Bonus: 0.5, Always: true}))
		sess := openSession(t, monsterParams(grunt()), join{"rng", session.ActionFight})
		res := fx.r.newResolution(context.Background(), sess)

		rewards := fx.r.rewardParty(context.Background(), res, []string{"rng"}, 100, treasure.Treasure{})

		require.Len(t, rewards, 1)
		assert.Equal(t, int64(150), rewards[0].XP)
		// The die is still thrown, its result just never read.
		assert.Equal(t, 1, src.idx)
	})

	t.Run("ordinary miss", func(t *testing.T) {
		fx := newFixture(t, script(2), ranger(&character.Pet{Name: "Hawk", Bonus: 2}))
		sess := openSession(t, monsterParams(grunt()), join{"rng", session.ActionFight})
		res := fx.r.newResolution(context.Background(), sess)

		rewards := fx.r.rewardParty(context.Background(), res, []string{"rng"}, 100, treasure.Treasure{})

		require.Len(t, rewards, 1)
		assert.Equal(t, int64(100), rewards[0].XP)
		assert.Empty(t, res.events)
	})
}

func TestDistributeNilResultPanics(t *testing.T) {
	fx := newFixture(t, script())
	assert.PanicsWithValue(t, "encounter: Distribute called with nil result", func() {
		fx.r.Distribute(context.Background(), nil)
	})
}

func TestDistributeSkipsUnknownUsers(t *testing.T) {
	fx := newFixture(t, script(), hero("ana", 0))
	result := &Result{
		GuildID: "guild-1",
		Rewards: []Reward{
			{UserID: "ghost", XP: 100, CP: 50},
			{UserID: "ana", XP: 37},
		},
		Participants: []string{"ana"},
	}

	ups := fx.r.Distribute(context.Background(), result)

	assert.Equal(t, []LevelUp{{UserID: "ana", Level: 2}}, ups)
	ana := fx.store.get(t, "ana")
	assert.Equal(t, int64(37), ana.Exp)
	assert.Equal(t, 2, ana.Lvl)
	assert.Zero(t, fx.ledger.balance("ghost"))
}

func TestDistributeAppliesTreasureWithoutLevels(t *testing.T) {
	fx := newFixture(t, script(), hero("ana", 0))
	result := &Result{
		GuildID: "guild-1",
		Rewards: []Reward{{UserID: "ana", Treasure: treasure.Treasure{Normal: 2}}},
	}

	ups := fx.r.Distribute(context.Background(), result)

	assert.Empty(t, ups)
	ana := fx.store.get(t, "ana")
	assert.Equal(t, treasure.Treasure{Normal: 2}, ana.Treasure)
	assert.Zero(t, fx.ledger.balance("ana"), "a zero reward deposits nothing")
}

func TestDistributeVeteranChests(t *testing.T) {
	reward := func(id string, bundle treasure.Treasure) *Result {
		return &Result{GuildID: "guild-1", Rewards: []Reward{{UserID: id, Treasure: bundle}}}
	}

	t.Run("veteran rolls normal and rare", func(t *testing.T) {
		vet := character.NewBuilder("vet", "vet").Rebirths(6).MustBuild()
		fx := newFixture(t, script(28), vet)

		fx.r.Distribute(context.Background(), reward("vet", treasure.Treasure{}))

		assert.Equal(t, treasure.Treasure{Normal: 1, Rare: 1}, fx.store.get(t, "vet").Treasure)
	})

	t.Run("deep veteran sweeps every threshold", func(t *testing.T) {
		vet := character.NewBuilder("vet", "vet").Rebirths(16).MustBuild()
		fx := newFixture(t, script(0), vet)

		fx.r.Distribute(context.Background(), reward("vet", treasure.Treasure{}))

		assert.Equal(t, treasure.Treasure{Normal: 1, Rare: 1, Epic: 1, Legendary: 1}, fx.store.get(t, "vet").Treasure)
	})

	t.Run("parked at the cap rolls past every threshold", func(t *testing.T) {
		vet := character.NewBuilder("vet", "vet").Rebirths(2).Level(30).MustBuild()
		fx := newFixture(t, script(0, 0), vet)

		fx.r.Distribute(context.Background(), reward("vet", treasure.Treasure{Normal: 1}))

		assert.Equal(t, treasure.Treasure{Normal: 1}, fx.store.get(t, "vet").Treasure)
	})

	t.Run("a single rebirth rolls nothing", func(t *testing.T) {
		counting := &countingSource{src: script()}
		once := character.NewBuilder("once", "once").Rebirths(1).MustBuild()
		fx := newFixture(t, counting, once)

		fx.r.Distribute(context.Background(), reward("once", treasure.Treasure{Normal: 1}))

		assert.Zero(t, counting.draws)
		assert.Equal(t, treasure.Treasure{Normal: 1}, fx.store.get(t, "once").Treasure)
	})
}

func TestDistributeResetsAbilities(t *testing.T) {
	wiz := character.NewBuilder("wiz", "wiz").Class(character.ClassWizard).AbilityActive().MustBuild()
	rng := character.NewBuilder("rng", "rng").
		Class(character.ClassRanger).
		WithPet(&character.Pet{Name: "Hawk", Bonus: 1}).
		AbilityActive().
		MustBuild()
	fx := newFixture(t, script(), wiz, rng)
	result := &Result{GuildID: "guild-1", Participants: []string{"wiz", "rng"}}

	fx.r.Distribute(context.Background(), result)

	assert.False(t, fx.store.get(t, "wiz").AbilityActive)
	assert.True(t, fx.store.get(t, "rng").AbilityActive, "a tamed pet stays at its ranger's side")
}
