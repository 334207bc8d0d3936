package encounter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/adventure/internal/game/character"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/session"
)

func miniboss(kind monster.RequirementKind, value string) *monster.MiniBoss {
	return &monster.MiniBoss{
		Special:     "bone rattle",
		Requirement: monster.Requirement{Kind: kind, Value: value},
	}
}

func TestMinibossGateMembers(t *testing.T) {
	t.Run("too few", func(t *testing.T) {
		fx := newFixture(t, script(), hero("ana", 10), hero("bob", 10))
		p := monsterParams(grunt())
		p.Miniboss = miniboss(monster.RequireMembers, "2")
		sess := openSession(t, p,
			join{"ana", session.ActionFight},
			join{"bob", session.ActionFight},
		)
		res := fx.r.newResolution(context.Background(), sess)

		assert.True(t, fx.r.minibossGate(res))
	})

	t.Run("enough", func(t *testing.T) {
		fx := newFixture(t, script(), hero("ana", 10), hero("bob", 10), hero("cid", 10))
		p := monsterParams(grunt())
		p.Miniboss = miniboss(monster.RequireMembers, "2")
		sess := openSession(t, p,
			join{"ana", session.ActionFight},
			join{"bob", session.ActionFight},
			join{"cid", session.ActionTalk},
		)
		res := fx.r.newResolution(context.Background(), sess)

		assert.False(t, fx.r.minibossGate(res))
	})

	t.Run("runners do not count", func(t *testing.T) {
		fx := newFixture(t, script(), hero("ana", 10), hero("bob", 10), hero("cid", 10))
		p := monsterParams(grunt())
		p.Miniboss = miniboss(monster.RequireMembers, "2")
		sess := openSession(t, p,
			join{"ana", session.ActionFight},
			join{"bob", session.ActionTalk},
			join{"cid", session.ActionRun},
		)
		res := fx.r.newResolution(context.Background(), sess)

		assert.True(t, fx.r.minibossGate(res))
	})
}

func TestMinibossGateEmoji(t *testing.T) {
	fx := newFixture(t, script(), hero("ana", 10))
	p := monsterParams(grunt())
	p.Miniboss = miniboss(monster.RequireEmoji, "")
	sess := openSession(t, p, join{"ana", session.ActionFight})
	res := fx.r.newResolution(context.Background(), sess)

	assert.True(t, fx.r.minibossGate(res))

	sess.React()
	assert.False(t, fx.r.minibossGate(res))
}

func TestMinibossGateItem(t *testing.T) {
	cases := []struct {
		name string
		gear *equipment.Item
		want bool
	}{
		{name: "bare hands", gear: nil, want: true},
		{
			name: "named counter",
			gear: &equipment.Item{Name: "Milk Jug", Slots: []equipment.Slot{equipment.SlotCharm}},
			want: false,
		},
		{
			name: "name match is case sensitive",
			gear: &equipment.Item{Name: "milk jug", Slots: []equipment.Slot{equipment.SlotCharm}},
			want: true,
		},
		{
			name: "shiny trinket passes for anything",
			gear: &equipment.Item{Name: "Shiny Pebble", Slots: []equipment.Slot{equipment.SlotRing}},
			want: false,
		},
		{
			name: "forged shine does not count",
			gear: &equipment.Item{Name: "Shiny Pebble", Slots: []equipment.Slot{equipment.SlotRing}, Rarity: equipment.RarityForged},
			want: true,
		},
		{
			name: "ultimate set waives every gate",
			gear: &equipment.Item{Name: "Old Sock", Slots: []equipment.Slot{equipment.SlotBoots}, Set: "The Supreme One"},
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := character.NewBuilder("ana", "ana")
			if tc.gear != nil {
				b = b.Wearing(tc.gear)
			}
			fx := newFixture(t, script(), b.MustBuild())
			p := monsterParams(grunt())
			p.Miniboss = miniboss(monster.RequireItem, "Milk")
			sess := openSession(t, p, join{"ana", session.ActionFight})
			res := fx.r.newResolution(context.Background(), sess)

			assert.Equal(t, tc.want, fx.r.minibossGate(res))
		})
	}
}

func TestMinibossGateWithoutMiniboss(t *testing.T) {
	fx := newFixture(t, script(), hero("ana", 10))
	sess := openSession(t, monsterParams(grunt()), join{"ana", session.ActionFight})
	res := fx.r.newResolution(context.Background(), sess)

	assert.False(t, fx.r.minibossGate(res))
}
