package equipment

// SetBonus is one reward row of a gear set. A character wearing at least
// Parts pieces of the set qualifies for the row; the row with the highest
// qualifying Parts wins.
type SetBonus struct {
	Parts    int     `json:"parts" yaml:"parts"`
	Att      int     `json:"att" yaml:"att"`
	Cha      int     `json:"cha" yaml:"cha"`
	Int      int     `json:"int" yaml:"int"`
	Dex      int     `json:"dex" yaml:"dex"`
	Luck     int     `json:"luck" yaml:"luck"`
	StatMult float64 `json:"statmult" yaml:"statmult"`
	XPMult   float64 `json:"xpmult" yaml:"xpmult"`
	CPMult   float64 `json:"cpmult" yaml:"cpmult"`
}

// NeutralBonus is the no-op bonus applied when no set threshold is met.
// Multipliers are 1 so totals pass through unchanged.
func NeutralBonus() SetBonus {
	return SetBonus{StatMult: 1, XPMult: 1, CPMult: 1}
}

// combine merges b and other by summing flat stats and multiplying the
// multiplier terms.
func (b SetBonus) combine(other SetBonus) SetBonus {
	return SetBonus{
		Att:      b.Att + other.Att,
		Cha:      b.Cha + other.Cha,
		Int:      b.Int + other.Int,
		Dex:      b.Dex + other.Dex,
		Luck:     b.Luck + other.Luck,
		StatMult: b.StatMult * other.StatMult,
		XPMult:   b.XPMult * other.XPMult,
		CPMult:   b.CPMult * other.CPMult,
	}
}

// ComputeSetBonus resolves the aggregate bonus for worn equipment against
// the theme's set tables. Each set contributes its highest row whose Parts
// requirement the character meets; contributions from different sets stack.
//
// Postcondition: The result's multipliers are at least the product of the
// matched rows' multipliers, never zero.
func ComputeSetBonus(e *Equipment, tables map[string][]SetBonus) SetBonus {
	result := NeutralBonus()
	if e == nil {
		return result
	}
	for set, worn := range e.SetPieces() {
		rows, ok := tables[set]
		if !ok {
			continue
		}
		best := -1
		for i, row := range rows {
			if worn >= row.Parts && (best < 0 || row.Parts > rows[best].Parts) {
				best = i
			}
		}
		if best >= 0 {
			row := rows[best]
			if row.StatMult == 0 {
				row.StatMult = 1
			}
			if row.XPMult == 0 {
				row.XPMult = 1
			}
			if row.CPMult == 0 {
				row.CPMult = 1
			}
			result = result.combine(row)
		}
	}
	return result
}
