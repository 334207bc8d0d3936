package legacy

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
)

// ParseMonsters parses a legacy monsters.json or as_monsters.json roster.
//
// Precondition: data must be valid JSON.
// Postcondition: returns a non-nil map or a non-nil error.
func ParseMonsters(data []byte) (map[string]Monster, error) {
	var m map[string]Monster
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing legacy monsters: %w", err)
	}
	if m == nil {
		m = map[string]Monster{}
	}
	return m, nil
}

// ParseAttributes parses a legacy attribs.json table. Each value is a
// [hp_mult, dipl_mult] pair; length is checked during conversion, not here.
//
// Precondition: data must be valid JSON.
// Postcondition: returns a non-nil map or a non-nil error.
func ParseAttributes(data []byte) (map[string][]float64, error) {
	var a map[string][]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing legacy attributes: %w", err)
	}
	if a == nil {
		a = map[string][]float64{}
	}
	return a, nil
}

// ParseLines parses one of the legacy narration files (locations.json,
// raisins.json, threatee.json), each a flat JSON list of strings.
//
// Precondition: data must be valid JSON.
// Postcondition: returns a (possibly empty) slice or a non-nil error.
func ParseLines(data []byte) ([]string, error) {
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parsing legacy narration lines: %w", err)
	}
	return lines, nil
}

// ParseSetBonuses parses a legacy set_bonuses.json table. Legacy rows carry
// the same field names this project uses, so they unmarshal directly.
//
// Precondition: data must be valid JSON.
// Postcondition: returns a non-nil map or a non-nil error.
func ParseSetBonuses(data []byte) (map[string][]equipment.SetBonus, error) {
	var sets map[string][]equipment.SetBonus
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parsing legacy set bonuses: %w", err)
	}
	if sets == nil {
		sets = map[string][]equipment.SetBonus{}
	}
	return sets, nil
}
