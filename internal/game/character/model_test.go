package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
)

func TestMaxLevelLadder(t *testing.T) {
	cases := []struct {
		rebirths int
		want     int
	}{
		{0, 5},
		{1, 25},
		{5, 45},
		{9, 65},
		// 10..1 steps: one +10 for r=10, nine +5 below.
		{10, 20 + 10 + 45},
		{19, 20 + 100 + 45},
		{20, 20 + 10 + 100 + 45},
		// 25..10 is sixteen +10 steps, 9..1 nine +5 steps.
		{25, 20 + 160 + 45},
	}
	for _, tc := range cases {
		c := character.Character{Rebirths: tc.rebirths, HeroClass: character.ClassHero}
		assert.Equal(t, tc.want, c.MaxLevel(), "rebirths=%d", tc.rebirths)
	}
}

func TestMaxLevelNegativeRebirths(t *testing.T) {
	c := character.Character{Rebirths: -3}
	assert.Equal(t, 5, c.MaxLevel())
}

func TestLevelForExp(t *testing.T) {
	assert.Equal(t, 0, character.LevelForExp(0))
	assert.Equal(t, 0, character.LevelForExp(-10))
	// 2^3.5 ~ 11.31, so 11 exp is still level 1 and 12 reaches level 2.
	assert.Equal(t, 1, character.LevelForExp(11))
	assert.Equal(t, 2, character.LevelForExp(12))
	// 10^3.5 = 3162.27..., so 3163 exp reaches level 10.
	assert.Equal(t, 10, character.LevelForExp(3163))
}

func TestSkillPointsAt(t *testing.T) {
	// 0.5 per level below 100, truncated.
	assert.Equal(t, 2, character.SkillPointsAt(4, 0))
	assert.Equal(t, 2, character.SkillPointsAt(5, 0))
	// Rebirths contribute a flat 10 each.
	assert.Equal(t, 22, character.SkillPointsAt(5, 2))
	// Level 101: levels 101,100 give +1 each, 99..1 give 0.5 each.
	assert.Equal(t, 51, character.SkillPointsAt(101, 0))
}

func TestGainExpLevelsUpAndCreditsPool(t *testing.T) {
	c := character.NewBuilder("u1", "Tester").Rebirths(1).MustBuild()

	gained := c.GainExp(130) // 130^(1/3.5) ~ 4.01 -> level 4
	assert.Equal(t, 4, gained)
	assert.Equal(t, 4, c.Lvl)
	assert.Equal(t, 2, c.Skill.Pool) // 12 - 10 at rebirths=1

	// No level change on tiny gains.
	assert.Equal(t, 0, c.GainExp(1))
}

func TestGainExpRespectsCap(t *testing.T) {
	c := character.NewBuilder("u1", "Capped").MustBuild() // rebirths 0, cap 5
	c.GainExp(1_000_000)
	assert.Equal(t, 5, c.Lvl)
	assert.True(t, c.AtMaxLevel())
}

func TestGainExpPanicsOnNegative(t *testing.T) {
	c := character.NewBuilder("u1", "Tester").MustBuild()
	assert.Panics(t, func() { c.GainExp(-1) })
}

func TestStatsFromGearAndRebirths(t *testing.T) {
	c := character.NewBuilder("u1", "Geared").
		Rebirths(1).
		Level(3).
		Wearing(&equipment.Item{
			Name:  "iron sword",
			Slots: []equipment.Slot{equipment.SlotRight},
			Att:   50,
		}).
		MustBuild()

	// One rebirth grants 2 floor points on every stat.
	assert.Equal(t, 52, c.Att())
	assert.Equal(t, 2, c.Cha())
	assert.Equal(t, 2, c.Dex())
	assert.Equal(t, 52, c.TotalAtt())
}

func TestSkillPointsAddToTotals(t *testing.T) {
	c := character.NewBuilder("u1", "Skilled").
		Rebirths(1).
		Level(3).
		Skill(4, 2, 1, 0).
		MustBuild()

	assert.Equal(t, 2, c.Att())
	assert.Equal(t, 6, c.TotalAtt())
	assert.Equal(t, 4, c.TotalCha())
	assert.Equal(t, 3, c.TotalInt())
}

func TestStatCapNerfBeforeFirstRebirth(t *testing.T) {
	c := character.NewBuilder("u1", "Parked").
		Level(5).
		Skill(9, 9, 9, 3).
		Wearing(&equipment.Item{
			Name:  "iron sword",
			Slots: []equipment.Slot{equipment.SlotRight},
			Att:   50,
		}).
		MustBuild()

	// Level 5 with zero rebirths plays with floor stats.
	assert.Equal(t, 5, c.Att())
	assert.Equal(t, 6, c.TotalAtt()) // capped stat + forced skill of 1
}

func TestSetBonusAppliesToStats(t *testing.T) {
	c := character.NewBuilder("u1", "SetWearer").
		Rebirths(1).
		Level(3).
		Wearing(
			&equipment.Item{Name: "crown", Slots: []equipment.Slot{equipment.SlotHead}, Att: 10, Set: "Aether Walker"},
			&equipment.Item{Name: "boots", Slots: []equipment.Slot{equipment.SlotBoots}, Att: 8, Set: "Aether Walker"},
		).
		MustBuild()

	c.ApplySetBonuses(map[string][]equipment.SetBonus{
		"Aether Walker": {{Parts: 2, Att: 5, StatMult: 1.5, XPMult: 1, CPMult: 1}},
	})

	// (2 rebirth + 18 gear) * 1.5 = 30, plus 5 flat.
	assert.Equal(t, 35, c.Att())
	assert.InDelta(t, 1.5, c.GearBonus().StatMult, 1e-9)
}

func TestGearBonusDefaultsNeutral(t *testing.T) {
	c := character.NewBuilder("u1", "Bare").MustBuild()
	assert.Equal(t, equipment.NeutralBonus(), c.GearBonus())
}

func TestValidateRejectsBadModels(t *testing.T) {
	c := character.Character{ID: "", HeroClass: "ninja", Rebirths: -1}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id must not be empty")
	assert.Contains(t, err.Error(), "ninja")
	assert.Contains(t, err.Error(), "rebirths")
}

func TestValidateRejectsPetOnNonRanger(t *testing.T) {
	c := character.Character{
		ID:        "u1",
		HeroClass: character.ClassWizard,
		Pet:       &character.Pet{Name: "owl"},
	}
	assert.Error(t, c.Validate())
}

func TestResetAbility(t *testing.T) {
	wiz := character.NewBuilder("u1", "Wiz").Class(character.ClassWizard).AbilityActive().MustBuild()
	wiz.ResetAbility()
	assert.False(t, wiz.AbilityActive)

	ranger := character.NewBuilder("u2", "Hunter").Class(character.ClassRanger).AbilityActive().MustBuild()
	ranger.ResetAbility()
	assert.True(t, ranger.AbilityActive)
}

func TestAbilityNames(t *testing.T) {
	assert.Equal(t, "rage", character.ClassBerserker.AbilityName())
	assert.Equal(t, "insight", character.ClassPsychic.AbilityName())
	assert.Equal(t, "", character.ClassHero.AbilityName())
}

// Property-based tests

func TestPropertyLevelNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rebirths := rapid.IntRange(0, 40).Draw(t, "rebirths")
		exp := rapid.Int64Range(0, 1_000_000_000).Draw(t, "exp")

		c := character.Character{ID: "u", HeroClass: character.ClassHero, Rebirths: rebirths}
		c.GainExp(exp)
		if c.Lvl > c.MaxLevel() {
			t.Fatalf("level %d exceeds cap %d", c.Lvl, c.MaxLevel())
		}
	})
}

func TestPropertyMaxLevelMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rebirths := rapid.IntRange(0, 100).Draw(t, "rebirths")
		a := character.Character{Rebirths: rebirths}
		b := character.Character{Rebirths: rebirths + 1}
		if b.MaxLevel() < a.MaxLevel() {
			t.Fatalf("cap decreased from %d to %d at rebirths=%d",
				a.MaxLevel(), b.MaxLevel(), rebirths)
		}
	})
}
