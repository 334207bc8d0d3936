package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/encounter"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/treasure"
	"github.com/cory-johannsen/adventure/internal/storage/postgres"
	"github.com/cory-johannsen/adventure/internal/testutil"
)

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func questHero(id string) *character.Character {
	c := character.NewBuilder(id, "Bo").
		Class(character.ClassRanger).
		Rebirths(12).
		Level(30).
		Exp(150_000).
		Skill(4, 2, 1, 3).
		Wearing(&equipment.Item{
			Name:   "wolfbane cloak",
			Slots:  []equipment.Slot{equipment.SlotChest},
			Att:    3,
			Rarity: equipment.RarityRare,
			Level:  20,
		}).
		WithPet(&character.Pet{Name: "ghost wolf", Bonus: 1.2, CritChance: 5}).
		MustBuild()
	c.Treasure = treasure.Treasure{Normal: 3, Rare: 1}
	c.Adventures = character.Record{Fight: 7, Wins: 5, Loses: 2}
	c.CooldownUntil = time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)
	return c
}

func TestCharacterRepository_SaveAndLoad(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	hero := questHero("bo")
	require.NoError(t, repo.Save(ctx, hero))

	fetched, err := repo.Load(ctx, "bo")
	require.NoError(t, err)

	assert.Equal(t, "bo", fetched.ID)
	assert.Equal(t, "Bo", fetched.Name)
	assert.Equal(t, character.ClassRanger, fetched.HeroClass)
	assert.Equal(t, 12, fetched.Rebirths)
	assert.Equal(t, 30, fetched.Lvl)
	assert.Equal(t, int64(150_000), fetched.Exp)
	assert.Equal(t, character.SkillPoints{Att: 4, Cha: 2, Int: 1, Pool: 3}, fetched.Skill)
	assert.Equal(t, treasure.Treasure{Normal: 3, Rare: 1}, fetched.Treasure)
	assert.Equal(t, character.Record{Fight: 7, Wins: 5, Loses: 2}, fetched.Adventures)
	assert.True(t, fetched.CooldownUntil.Equal(hero.CooldownUntil))

	require.NotNil(t, fetched.Pet)
	assert.Equal(t, "ghost wolf", fetched.Pet.Name)
	assert.Equal(t, 1.2, fetched.Pet.Bonus)

	require.NotNil(t, fetched.Equipment)
	worn := fetched.Equipment.Worn[equipment.SlotChest]
	require.NotNil(t, worn)
	assert.Equal(t, "wolfbane cloak", worn.Name)
	assert.Equal(t, 3, worn.Att)
}

func TestCharacterRepository_SaveOverwrites(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	hero := questHero("bo")
	require.NoError(t, repo.Save(ctx, hero))

	hero.GainExp(1_000_000)
	require.NoError(t, repo.Save(ctx, hero))

	fetched, err := repo.Load(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, hero.Exp, fetched.Exp)
	assert.Equal(t, hero.Lvl, fetched.Lvl)
}

func TestCharacterRepository_LoadMissing(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)

	_, err := repo.Load(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, encounter.ErrCharacterNotFound)
}

func TestCharacterRepository_SaveValidation(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	require.Error(t, repo.Save(ctx, nil))
	require.Error(t, repo.Save(ctx, &character.Character{Name: "no id"}))
}

func TestCharacterRepository_LoadHydratesSetBonuses(t *testing.T) {
	pool := testutil.NewPool(t)
	tables := map[string][]equipment.SetBonus{
		"Wolf": {{Parts: 2, Att: 10, StatMult: 1, XPMult: 1, CPMult: 1}},
	}
	hydrating := postgres.NewCharacterRepository(pool, tables)
	bare := postgres.NewCharacterRepository(pool, nil)
	ctx := context.Background()

	hero := character.NewBuilder("bo", "Bo").
		Wearing(
			&equipment.Item{Name: "wolf fang", Slots: []equipment.Slot{equipment.SlotLeft}, Rarity: equipment.RaritySet, Set: "Wolf"},
			&equipment.Item{Name: "wolf hide", Slots: []equipment.Slot{equipment.SlotChest}, Rarity: equipment.RaritySet, Set: "Wolf"},
		).
		MustBuild()
	require.NoError(t, hydrating.Save(ctx, hero))

	loaded, err := hydrating.Load(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Att(), "two wolf pieces should trigger the set bonus")

	raw, err := bare.Load(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, 0, raw.Att(), "without tables the bonus stays dormant")
}

func TestCharacterRepository_Delete(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, questHero("bo")))
	require.NoError(t, repo.Delete(ctx, "bo"))

	_, err := repo.Load(ctx, "bo")
	assert.ErrorIs(t, err, encounter.ErrCharacterNotFound)

	err = repo.Delete(ctx, "bo")
	assert.ErrorIs(t, err, encounter.ErrCharacterNotFound)
}

func TestCharacterRepository_TopByExp(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	for id, exp := range map[string]int64{"bo": 300, "mim": 200, "pip": 200} {
		hero := character.NewBuilder(id, id).Exp(exp).MustBuild()
		require.NoError(t, repo.Save(ctx, hero))
	}

	top, err := repo.TopByExp(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "bo", top[0].ID)
	assert.Equal(t, "mim", top[1].ID, "ties order by user id")
	assert.Equal(t, "pip", top[2].ID)

	two, err := repo.TopByExp(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "bo", two[0].ID)

	none, err := repo.TopByExp(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestCharacterRepository_Property_RoundTrip verifies that Save followed by
// Load preserves progression fields for arbitrary values.
func TestCharacterRepository_Property_RoundTrip(t *testing.T) {
	repo := postgres.NewCharacterRepository(testutil.NewPool(t), nil)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		id := uniqueID("hero")
		rebirths := rapid.IntRange(0, 50).Draw(rt, "rebirths")
		exp := rapid.Int64Range(0, 1_000_000).Draw(rt, "exp")
		pool := rapid.IntRange(0, 100).Draw(rt, "pool")

		hero := character.NewBuilder(id, "Prop").
			Rebirths(rebirths).
			Exp(exp).
			Skill(1, 2, 3, pool).
			MustBuild()
		require.NoError(t, repo.Save(ctx, hero))

		fetched, err := repo.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, rebirths, fetched.Rebirths)
		assert.Equal(t, exp, fetched.Exp)
		assert.Equal(t, pool, fetched.Skill.Pool)
	})
}
