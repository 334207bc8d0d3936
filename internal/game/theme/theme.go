// Package theme loads and serves the content tables an adventure draws
// from: the monster catalog, attribute prefixes with their threshold
// multipliers, narration flavor lines, and gear set bonuses.
package theme

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/adventure/internal/game/dice"
	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
)

// AttributeMults scales the monster's side thresholds when its attribute is
// drawn: HP multiplies the physical threshold, Dipl the diplomacy one.
type AttributeMults struct {
	HP   float64 `yaml:"hp"`
	Dipl float64 `yaml:"dipl"`
}

// Attribute is a drawn monster prefix together with its multipliers.
type Attribute struct {
	Name string
	AttributeMults
}

// Narration holds the flavor tables drawn when announcing an encounter.
type Narration struct {
	Locations  []string `yaml:"locations"`
	Reasons    []string `yaml:"reasons"`
	Threatened []string `yaml:"threatened"`
}

// Theme is one complete content bundle. Values are immutable after New;
// lookups and random draws are safe for concurrent use.
type Theme struct {
	Name       string
	Monsters   []monster.Monster
	Attributes map[string]AttributeMults
	Narration  Narration
	SetBonuses map[string][]equipment.SetBonus

	byName         map[string]int
	attributeNames []string
}

// New assembles and validates a theme from parsed tables. Monsters get their
// defaults applied before validation.
//
// Postcondition: Returns a fully indexed Theme, or a non-nil error naming
// the first offending table entry.
func New(name string, monsters []monster.Monster, attributes map[string]AttributeMults, narration Narration, setBonuses map[string][]equipment.SetBonus) (*Theme, error) {
	t := &Theme{
		Name:       name,
		Monsters:   make([]monster.Monster, len(monsters)),
		Attributes: attributes,
		Narration:  narration,
		SetBonuses: setBonuses,
		byName:     make(map[string]int, len(monsters)),
	}
	copy(t.Monsters, monsters)
	for i := range t.Monsters {
		t.Monsters[i].ApplyDefaults()
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	for i, m := range t.Monsters {
		t.byName[m.Name] = i
	}
	t.attributeNames = make([]string, 0, len(attributes))
	for n := range attributes {
		t.attributeNames = append(t.attributeNames, n)
	}
	sort.Strings(t.attributeNames)
	return t, nil
}

func (t *Theme) validate() error {
	if t.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(t.Monsters) == 0 {
		return fmt.Errorf("must define at least one monster")
	}
	seen := make(map[string]bool, len(t.Monsters))
	for i := range t.Monsters {
		m := &t.Monsters[i]
		if err := m.Validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate monster %q", m.Name)
		}
		seen[m.Name] = true
	}
	if len(t.Attributes) == 0 {
		return fmt.Errorf("must define at least one attribute")
	}
	for name, mults := range t.Attributes {
		if mults.HP <= 0 || mults.Dipl <= 0 {
			return fmt.Errorf("attribute %q: multipliers must be > 0", name)
		}
	}
	if len(t.Narration.Locations) == 0 || len(t.Narration.Reasons) == 0 || len(t.Narration.Threatened) == 0 {
		return fmt.Errorf("narration tables must each hold at least one line")
	}
	for set, rows := range t.SetBonuses {
		if len(rows) == 0 {
			return fmt.Errorf("set %q: must define at least one bonus row", set)
		}
		for i, row := range rows {
			if row.Parts < 1 {
				return fmt.Errorf("set %q row %d: parts must be >= 1", set, i)
			}
			if row.StatMult < 0 || row.XPMult < 0 || row.CPMult < 0 {
				return fmt.Errorf("set %q row %d: multipliers must be >= 0", set, i)
			}
		}
	}
	return nil
}

// Monster returns the named monster and whether the catalog holds it.
func (t *Theme) Monster(name string) (monster.Monster, bool) {
	i, ok := t.byName[name]
	if !ok {
		return monster.Monster{}, false
	}
	return t.Monsters[i], true
}

// Attribute resolves a forced attribute by name.
func (t *Theme) Attribute(name string) (Attribute, bool) {
	mults, ok := t.Attributes[name]
	if !ok {
		return Attribute{}, false
	}
	return Attribute{Name: name, AttributeMults: mults}, true
}

// RandomAttribute draws a uniform attribute. Names are drawn from a sorted
// index so a seeded source replays the same sequence.
func (t *Theme) RandomAttribute(src dice.Source) Attribute {
	name := dice.Choice(src, t.attributeNames)
	return Attribute{Name: name, AttributeMults: t.Attributes[name]}
}

// RandomLocation draws an encounter location line.
func (t *Theme) RandomLocation(src dice.Source) string {
	return dice.Choice(src, t.Narration.Locations)
}

// RandomReason draws the monster's motive line.
func (t *Theme) RandomReason(src dice.Source) string {
	return dice.Choice(src, t.Narration.Reasons)
}

// RandomThreatened draws who the monster menaces.
func (t *Theme) RandomThreatened(src dice.Source) string {
	return dice.Choice(src, t.Narration.Threatened)
}
