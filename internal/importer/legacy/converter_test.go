package legacy_test

import (
	"fmt"
	"testing"

	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/importer"
	"github.com/cory-johannsen/adventure/internal/importer/legacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func plainMonster(hp, dipl float64) legacy.Monster {
	return legacy.Monster{HP: hp, PDef: 1.0, MDef: 1.0, CDef: 1.0, Dipl: dipl}
}

func TestConvertMonsters_Basic(t *testing.T) {
	base := map[string]legacy.Monster{
		"Wolf":   plainMonster(40, 30),
		"Dragon": {HP: 540, PDef: 1.3, MDef: 1.3, CDef: 1.1, Dipl: 460, Boss: true, Image: "https://example.com/dragon.png"},
	}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	require.Len(t, out, 2)

	// Sorted by name.
	assert.Equal(t, "Dragon", out[0].Name)
	assert.Equal(t, "Wolf", out[1].Name)

	dragon := out[0]
	assert.Equal(t, 540.0, dragon.HP)
	assert.Equal(t, 460.0, dragon.Dipl)
	assert.Equal(t, 1.1, dragon.CDef)
	assert.True(t, dragon.Boss)
	assert.Equal(t, "https://example.com/dragon.png", dragon.Image)
	assert.Nil(t, dragon.Miniboss)
}

func TestConvertMonsters_AscendedWins(t *testing.T) {
	base := map[string]legacy.Monster{"Wolf": plainMonster(40, 30)}
	ascended := map[string]legacy.Monster{"Wolf": plainMonster(80, 60)}

	out, warnings := legacy.ConvertMonsters(base, ascended)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "both rosters")
	require.Len(t, out, 1)
	assert.Equal(t, 80.0, out[0].HP)
}

func TestConvertMonsters_MembersGate(t *testing.T) {
	base := map[string]legacy.Monster{
		"Hydra": withMiniboss(plainMonster(300, 240), []any{"members", 5.0}, "many heads strike at once"),
	}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Miniboss)
	assert.Equal(t, monster.RequireMembers, out[0].Miniboss.Requirement.Kind)
	assert.Equal(t, "5", out[0].Miniboss.Requirement.Value)
	assert.Equal(t, 5, out[0].Miniboss.Requirement.MemberThreshold())
	assert.Equal(t, "many heads strike at once", out[0].Miniboss.Special)
}

func TestConvertMonsters_EmojiGate(t *testing.T) {
	base := map[string]legacy.Monster{
		"Mimic": withMiniboss(plainMonster(120, 90), []any{"emoji", "\U0001F3F4"}, "snaps shut"),
	}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	require.NotNil(t, out[0].Miniboss)
	assert.Equal(t, monster.RequireEmoji, out[0].Miniboss.Requirement.Kind)
	assert.Empty(t, out[0].Miniboss.Requirement.Value)
}

func TestConvertMonsters_ItemGate(t *testing.T) {
	base := map[string]legacy.Monster{
		"Basilisk": withMiniboss(plainMonster(260, 210), []any{"mirror shard", "left"}, "petrifying gaze"),
	}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	require.NotNil(t, out[0].Miniboss)
	assert.Equal(t, monster.RequireItem, out[0].Miniboss.Requirement.Kind)
	assert.Equal(t, "mirror shard", out[0].Miniboss.Requirement.Value)
}

func TestConvertMonsters_EmptyMinibossDropped(t *testing.T) {
	m := plainMonster(40, 30)
	m.Miniboss = &legacy.Miniboss{}
	base := map[string]legacy.Monster{"Wolf": m}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	assert.Nil(t, out[0].Miniboss)
}

func TestConvertMonsters_BossMinibossConflict(t *testing.T) {
	m := withMiniboss(plainMonster(540, 460), []any{"members", 3.0}, "roar")
	m.Boss = true
	base := map[string]legacy.Monster{"Dragon": m}

	out, warnings := legacy.ConvertMonsters(base, nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "boss")
	require.Len(t, out, 1)
	assert.True(t, out[0].Boss)
	assert.Nil(t, out[0].Miniboss)
}

func TestConvertMonsters_MalformedGateKeepsMonster(t *testing.T) {
	cases := map[string][]any{
		"one element":         {"members"},
		"non-string gate":     {7.0, "left"},
		"threshold not a num": {"members", "lots"},
		"threshold zero":      {"members", 0.0},
	}
	for label, reqs := range cases {
		t.Run(label, func(t *testing.T) {
			base := map[string]legacy.Monster{
				"Hydra": withMiniboss(plainMonster(300, 240), reqs, "strike"),
			}
			out, warnings := legacy.ConvertMonsters(base, nil)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], "Hydra")
			require.Len(t, out, 1, "a bad gate must not drop the monster")
			assert.Nil(t, out[0].Miniboss)
		})
	}
}

func TestConvertMonsters_InvalidStatsSkipped(t *testing.T) {
	base := map[string]legacy.Monster{
		"Ghost": {HP: 0, PDef: 1.0, MDef: 1.0, CDef: 1.0, Dipl: 30},
		"Wolf":  plainMonster(40, 30),
	}

	out, warnings := legacy.ConvertMonsters(base, nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Ghost")
	require.Len(t, out, 1)
	assert.Equal(t, "Wolf", out[0].Name)
}

func TestConvertMonsters_ZeroCDefDefaulted(t *testing.T) {
	m := plainMonster(40, 30)
	m.CDef = 0
	base := map[string]legacy.Monster{"Wolf": m}

	out, warnings := legacy.ConvertMonsters(base, nil)
	assert.Empty(t, warnings)
	assert.Equal(t, 1.0, out[0].CDef)
}

func TestConvertAttributes(t *testing.T) {
	in := map[string][]float64{
		" mighty":   {1.4, 1.4},
		"n ancient": {1.6, 1.5},
		" weak":     {0.6, 0.8},
	}

	out, warnings := legacy.ConvertAttributes(in)
	assert.Empty(t, warnings)
	require.Len(t, out, 3)
	assert.Equal(t, 1.4, out["mighty"].HP)
	assert.Equal(t, 1.5, out["ancient"].Dipl)
	assert.Equal(t, 0.6, out["weak"].HP)
}

func TestConvertAttributes_BadRows(t *testing.T) {
	in := map[string][]float64{
		" mighty": {1.4, 1.4},
		" short":  {1.2},
		" zeroed": {0, 1.1},
		"   ":     {1.0, 1.0},
	}

	out, warnings := legacy.ConvertAttributes(in)
	assert.Len(t, warnings, 3)
	require.Len(t, out, 1)
	assert.Contains(t, out, "mighty")
}

func TestConvertAttributes_NormalisationCollision(t *testing.T) {
	in := map[string][]float64{
		" mighty": {1.4, 1.4},
		"mighty":  {1.2, 1.2},
	}

	out, warnings := legacy.ConvertAttributes(in)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "collides")
	assert.Len(t, out, 1)
}

// TestConvertMonsters_Deterministic ensures repeated conversions of the same
// rosters produce the same ordering.
func TestConvertMonsters_Deterministic(t *testing.T) {
	base := map[string]legacy.Monster{
		"Wolf":  plainMonster(40, 30),
		"Bear":  plainMonster(90, 60),
		"Eagle": plainMonster(30, 45),
	}
	first, _ := legacy.ConvertMonsters(base, nil)
	for i := 0; i < 10; i++ {
		got, _ := legacy.ConvertMonsters(base, nil)
		require.Len(t, got, len(first))
		for j := range first {
			assert.Equal(t, first[j].Name, got[j].Name, fmt.Sprintf("iteration %d", i))
		}
	}
}

// TestConvertMonsters_OutputCountLeInput is a property-based test verifying
// the catalogue never grows past the merged roster size.
func TestConvertMonsters_OutputCountLeInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Za-z ]{1,20}`), 0, 6, rapid.ID).Draw(t, "names")
		base := make(map[string]legacy.Monster, len(names))
		for i, n := range names {
			// Every other entry gets a zero hp so some are skipped.
			hp := float64(i % 2)
			base[n] = legacy.Monster{HP: hp, PDef: 1, MDef: 1, CDef: 1, Dipl: 10}
		}
		out, _ := legacy.ConvertMonsters(base, nil)
		assert.LessOrEqual(t, len(out), len(base))
	})
}

// TestConvertAttributes_AllKeysNormalised is a property-based test verifying
// every surviving key is already in canonical form.
func TestConvertAttributes_AllKeysNormalised(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`n? ?[a-z]{1,10}`), 0, 6, rapid.ID).Draw(t, "keys")
		in := make(map[string][]float64, len(keys))
		for _, k := range keys {
			in[k] = []float64{1.1, 1.2}
		}
		out, _ := legacy.ConvertAttributes(in)
		for k := range out {
			assert.Equal(t, importer.NormalizeAttribute(k), k, "key %q must be canonical", k)
		}
	})
}

func withMiniboss(m legacy.Monster, reqs []any, special string) legacy.Monster {
	m.Miniboss = &legacy.Miniboss{Requirements: reqs, Special: special}
	return m
}
