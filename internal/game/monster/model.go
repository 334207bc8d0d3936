// Package monster defines the adversary model: base stat blocks supplied by
// a theme, roster selection against the difficulty estimator's target band,
// and the dynamic stat scaling applied before each encounter.
package monster

import (
	"fmt"
	"strconv"

	"github.com/cory-johannsen/adventure/internal/game/difficulty"
)

// RequirementKind enumerates the gate styles a miniboss can demand.
type RequirementKind string

const (
	// RequireMembers demands a minimum number of distinct participants.
	RequireMembers RequirementKind = "members"
	// RequireEmoji demands that the session's reaction gate was triggered.
	RequireEmoji RequirementKind = "emoji"
	// RequireItem demands every participant carry a qualifying equipped item.
	RequireItem RequirementKind = "item"
)

// Requirement is a miniboss gate. For RequireMembers, Value holds the decimal
// participant threshold; for RequireItem, the item-name fragment that
// satisfies the gate; RequireEmoji carries no value.
type Requirement struct {
	Kind  RequirementKind `yaml:"kind"`
	Value string          `yaml:"value,omitempty"`
}

// Validate checks that the requirement is well formed.
//
// Postcondition: Returns nil iff Kind is a known RequirementKind and Value
// matches its shape (positive integer for members, non-empty for item).
func (r Requirement) Validate() error {
	switch r.Kind {
	case RequireMembers:
		n, err := strconv.Atoi(r.Value)
		if err != nil || n < 1 {
			return fmt.Errorf("requirement: members threshold %q must be a positive integer", r.Value)
		}
	case RequireEmoji:
	case RequireItem:
		if r.Value == "" {
			return fmt.Errorf("requirement: item gate must name the qualifying item")
		}
	default:
		return fmt.Errorf("requirement: unknown kind %q", r.Kind)
	}
	return nil
}

// MemberThreshold returns the participant count a members gate demands.
//
// Precondition: r.Kind == RequireMembers and r has passed Validate. Panics
// otherwise.
func (r Requirement) MemberThreshold() int {
	if r.Kind != RequireMembers {
		panic(fmt.Sprintf("monster: MemberThreshold called on %q requirement", r.Kind))
	}
	n, err := strconv.Atoi(r.Value)
	if err != nil {
		panic(fmt.Sprintf("monster: MemberThreshold called with unvalidated value %q", r.Value))
	}
	return n
}

// MiniBoss marks a monster whose special attack fires when its Requirement
// goes unmet at resolution time.
type MiniBoss struct {
	Special     string      `yaml:"special"`
	Requirement Requirement `yaml:"requirement"`
}

// Monster is a base adversary stat block. HP gates the fight and magic side,
// Dipl the talk side; the three defense factors divide the matching
// contributions. Defenses are nominal 1.0 and scaling may push them below
// the working floor, so resolvers clamp them at use time.
type Monster struct {
	Name     string    `yaml:"name"`
	HP       float64   `yaml:"hp"`
	Dipl     float64   `yaml:"dipl"`
	PDef     float64   `yaml:"pdef"`
	MDef     float64   `yaml:"mdef"`
	CDef     float64   `yaml:"cdef,omitempty"`
	Image    string    `yaml:"image,omitempty"`
	Boss     bool      `yaml:"boss,omitempty"`
	Miniboss *MiniBoss `yaml:"miniboss,omitempty"`
}

// ApplyDefaults fills stats older theme data omits: a zero CDef becomes the
// nominal 1.0.
func (m *Monster) ApplyDefaults() {
	if m.CDef == 0 {
		m.CDef = 1.0
	}
}

// Validate checks the stat block after ApplyDefaults.
//
// Precondition: m must not be nil.
// Postcondition: Returns nil iff the name is non-empty, hp and dipl are
// positive, every defense factor is positive, and any miniboss requirement
// validates.
func (m *Monster) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("monster: name must not be empty")
	}
	if m.HP <= 0 {
		return fmt.Errorf("monster %q: hp must be > 0, got %v", m.Name, m.HP)
	}
	if m.Dipl <= 0 {
		return fmt.Errorf("monster %q: dipl must be > 0, got %v", m.Name, m.Dipl)
	}
	if m.PDef <= 0 {
		return fmt.Errorf("monster %q: pdef must be > 0, got %v", m.Name, m.PDef)
	}
	if m.MDef <= 0 {
		return fmt.Errorf("monster %q: mdef must be > 0, got %v", m.Name, m.MDef)
	}
	if m.CDef <= 0 {
		return fmt.Errorf("monster %q: cdef must be > 0, got %v", m.Name, m.CDef)
	}
	if m.Boss && m.Miniboss != nil {
		return fmt.Errorf("monster %q: cannot be both boss and miniboss", m.Name)
	}
	if m.Miniboss != nil {
		if err := m.Miniboss.Requirement.Validate(); err != nil {
			return fmt.Errorf("monster %q: %w", m.Name, err)
		}
	}
	return nil
}

// MainStat returns the stat the estimator band measures this monster by: HP
// for an attack-type band, Dipl for a talk-type band.
func (m Monster) MainStat(st difficulty.StatType) float64 {
	if st == difficulty.StatHP {
		return m.HP
	}
	return m.Dipl
}
