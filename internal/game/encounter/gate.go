package encounter

import (
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
)

// ultimateSets pass every item gate outright.
var ultimateSets = []string{"The Supreme One", "Ainz Ooal Gown"}

// minibossGate checks the miniboss requirement against the assembled party
// and reports whether the special fires. Runners never count toward the
// gate.
func (r *Resolver) minibossGate(res *resolution) bool {
	mb := res.sess.Miniboss
	if mb == nil {
		return false
	}
	participants := res.participants()
	seen := make(map[string]bool, len(participants))
	unique := make([]string, 0, len(participants))
	for _, id := range participants {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	switch mb.Requirement.Kind {
	case monster.RequireMembers:
		return len(unique) <= mb.Requirement.MemberThreshold()
	case monster.RequireEmoji:
		return !res.sess.Reacted()
	default:
		for _, id := range unique {
			c, ok := res.chars[id]
			if !ok || c.Equipment == nil {
				continue
			}
			for _, set := range ultimateSets {
				if c.Equipment.WearsSet(set) {
					return false
				}
			}
			if hasCounterItem(c.Equipment, mb.Requirement.Value) {
				return false
			}
		}
		return true
	}
}

// hasCounterItem reports whether any equipped, non-forged item names the
// required counter or is shiny enough to pass for it.
func hasCounterItem(eq *equipment.Equipment, required string) bool {
	for _, item := range eq.Items() {
		if item.Rarity == equipment.RarityForged {
			continue
		}
		if strings.Contains(item.Name, required) || strings.Contains(strings.ToLower(item.Name), "shiny") {
			return true
		}
	}
	return false
}
