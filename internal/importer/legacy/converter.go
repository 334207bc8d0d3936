package legacy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/theme"
	"github.com/cory-johannsen/adventure/internal/importer"
)

// ConvertMonsters merges the base and ascended rosters into one catalogue,
// the same way the original cog merged them at load time, and converts each
// entry to the engine's stat block. Output is sorted by name so repeated
// imports produce identical files.
//
// Postcondition: returns the converted catalogue and a (possibly empty)
// slice of warning strings for recoverable issues (roster collisions,
// malformed gates, invalid stat blocks).
func ConvertMonsters(base, ascended map[string]Monster) ([]monster.Monster, []string) {
	var warnings []string

	merged := make(map[string]Monster, len(base)+len(ascended))
	for name, m := range base {
		merged[name] = m
	}
	for _, name := range sortedNames(ascended) {
		if _, dup := base[name]; dup {
			warnings = append(warnings, fmt.Sprintf("monster %q defined in both rosters; the ascended entry wins", name))
		}
		merged[name] = ascended[name]
	}

	var out []monster.Monster
	for _, name := range sortedNames(merged) {
		in := merged[name]
		m := monster.Monster{
			Name:  name,
			HP:    in.HP,
			Dipl:  in.Dipl,
			PDef:  in.PDef,
			MDef:  in.MDef,
			CDef:  in.CDef,
			Image: in.Image,
			Boss:  in.Boss,
		}
		mb, mbWarnings := convertMiniboss(name, in)
		warnings = append(warnings, mbWarnings...)
		m.Miniboss = mb

		m.ApplyDefaults()
		if err := m.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v; skipping", err))
			continue
		}
		out = append(out, m)
	}
	return out, warnings
}

// convertMiniboss maps the legacy [gate, detail] requirement pair onto a
// Requirement. A malformed pair drops only the gate, never the monster.
func convertMiniboss(name string, in Monster) (*monster.MiniBoss, []string) {
	if in.Miniboss.empty() {
		return nil, nil
	}
	if in.Boss {
		return nil, []string{fmt.Sprintf("monster %q: a boss cannot carry a miniboss gate; dropping it", name)}
	}

	raw := in.Miniboss.Requirements
	if len(raw) != 2 {
		return nil, []string{fmt.Sprintf("monster %q: miniboss requirements must be a [gate, detail] pair, got %d element(s); dropping the gate", name, len(raw))}
	}
	gate, ok := raw[0].(string)
	if !ok {
		return nil, []string{fmt.Sprintf("monster %q: miniboss gate must be a string, got %T; dropping the gate", name, raw[0])}
	}

	var req monster.Requirement
	switch gate {
	case "members":
		n, ok := asInt(raw[1])
		if !ok {
			return nil, []string{fmt.Sprintf("monster %q: members threshold %v is not a number; dropping the gate", name, raw[1])}
		}
		req = monster.Requirement{Kind: monster.RequireMembers, Value: strconv.Itoa(n)}
	case "emoji":
		req = monster.Requirement{Kind: monster.RequireEmoji}
	default:
		// An item gate names the qualifying item; the slot element is no
		// longer enforced, any worn slot counts.
		req = monster.Requirement{Kind: monster.RequireItem, Value: gate}
	}
	if err := req.Validate(); err != nil {
		return nil, []string{fmt.Sprintf("monster %q: %v; dropping the gate", name, err)}
	}
	return &monster.MiniBoss{Special: in.Miniboss.Special, Requirement: req}, nil
}

// ConvertAttributes normalises legacy attribute keys and pairs each with
// its threshold multipliers.
//
// Postcondition: returns a non-nil map and a (possibly empty) slice of
// warning strings for recoverable issues (short rows, non-positive
// multipliers, keys that collide after normalisation).
func ConvertAttributes(in map[string][]float64) (map[string]theme.AttributeMults, []string) {
	var warnings []string
	out := make(map[string]theme.AttributeMults, len(in))

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		mults := in[key]
		name := importer.NormalizeAttribute(key)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("attribute %q normalises to nothing; skipping", key))
			continue
		}
		if len(mults) < 2 {
			warnings = append(warnings, fmt.Sprintf("attribute %q: want [hp_mult, dipl_mult], got %d value(s); skipping", key, len(mults)))
			continue
		}
		if mults[0] <= 0 || mults[1] <= 0 {
			warnings = append(warnings, fmt.Sprintf("attribute %q: multipliers must be > 0; skipping", key))
			continue
		}
		if _, taken := out[name]; taken {
			warnings = append(warnings, fmt.Sprintf("attribute %q collides with an earlier key after normalisation; skipping", key))
			continue
		}
		out[name] = theme.AttributeMults{HP: mults[0], Dipl: mults[1]}
	}
	return out, warnings
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func sortedNames(m map[string]Monster) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
