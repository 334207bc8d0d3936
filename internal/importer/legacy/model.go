// Package legacy reads the JSON theme bundles the original Discord cog
// shipped and converts them into this project's theme tables.
package legacy

import (
	"bytes"
	"encoding/json"
)

// Monster is the parsed form of one entry in a legacy monsters.json or
// as_monsters.json map. Map keys are display names. The color field is
// intentionally omitted (embed styling, not game data).
type Monster struct {
	HP       float64   `json:"hp"`
	PDef     float64   `json:"pdef"`
	MDef     float64   `json:"mdef"`
	CDef     float64   `json:"cdef"`
	Dipl     float64   `json:"dipl"`
	Image    string    `json:"image"`
	Boss     bool      `json:"boss"`
	Miniboss *Miniboss `json:"miniboss"`
}

// Miniboss is the miniboss block of a legacy monster entry. Requirements is
// a two-element [gate, detail] pair: ["members", n] for a minimum party
// size, ["emoji", e] for a reaction gate, or an item-name fragment followed
// by the slot it was worn in. The defeat field is intentionally omitted
// (failure text now comes from the narration tables).
type Miniboss struct {
	Requirements []any  `json:"requirements"`
	Special      string `json:"special"`
}

// UnmarshalJSON accepts the shapes legacy data uses to mark a plain monster
// (false, null, {}) in addition to the full miniboss object.
func (m *Miniboss) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		*m = Miniboss{}
		return nil
	}
	type plain Miniboss
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*m = Miniboss(p)
	return nil
}

// empty reports whether the block carries no gate at all, the legacy
// encoding for "not a miniboss".
func (m *Miniboss) empty() bool {
	return m == nil || (len(m.Requirements) == 0 && m.Special == "")
}
