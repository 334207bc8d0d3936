package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
)

// Builder assembles a Character step by step. Intended for tests and the
// simulator; live characters arrive from the store.
type Builder struct {
	c    Character
	gear []*equipment.Item
}

// NewBuilder starts a builder for the given user ID and name.
func NewBuilder(id, name string) *Builder {
	return &Builder{
		c: Character{
			ID:        id,
			Name:      name,
			HeroClass: ClassHero,
			Equipment: equipment.New(),
		},
	}
}

// Class sets the hero class.
func (b *Builder) Class(hc HeroClass) *Builder {
	b.c.HeroClass = hc
	return b
}

// Rebirths sets the rebirth count.
func (b *Builder) Rebirths(n int) *Builder {
	b.c.Rebirths = n
	return b
}

// Level sets the current level.
func (b *Builder) Level(lvl int) *Builder {
	b.c.Lvl = lvl
	return b
}

// Exp sets the experience total.
func (b *Builder) Exp(exp int64) *Builder {
	b.c.Exp = exp
	return b
}

// Skill sets allocated skill points.
func (b *Builder) Skill(att, cha, intel, pool int) *Builder {
	b.c.Skill = SkillPoints{Att: att, Cha: cha, Int: intel, Pool: pool}
	return b
}

// Wearing equips the given items during Build.
func (b *Builder) Wearing(items ...*equipment.Item) *Builder {
	b.gear = append(b.gear, items...)
	return b
}

// WithPet attaches a ranger pet.
func (b *Builder) WithPet(pet *Pet) *Builder {
	b.c.Pet = pet
	return b
}

// AbilityActive marks the class ability as active.
func (b *Builder) AbilityActive() *Builder {
	b.c.AbilityActive = true
	return b
}

// Build validates and returns the character.
//
// Postcondition: Returns a Character passing Validate, or a non-nil error.
func (b *Builder) Build() (*Character, error) {
	for _, item := range b.gear {
		if item == nil || len(item.Slots) == 0 {
			return nil, errors.New("building character: gear item must declare a slot")
		}
		b.c.Equipment.Equip(item)
	}
	c := b.c
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("building character: %w", err)
	}
	return &c, nil
}

// MustBuild builds and panics on error. Useful in tests.
//
// Precondition: The configured character must validate.
func (b *Builder) MustBuild() *Character {
	c, err := b.Build()
	if err != nil {
		panic("character: MustBuild failed: " + err.Error())
	}
	return c
}
