package equipment

import "strings"

// Rarity classifies how an item drops and whether it degrades.
type Rarity string

const (
	RarityNormal    Rarity = "normal"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityAscended  Rarity = "ascended"
	RaritySet       Rarity = "set"
	RarityForged    Rarity = "forged"
	RarityEvent     Rarity = "event"
)

// AllRarities lists every rarity from most to least common.
var AllRarities = []Rarity{
	RarityNormal, RarityRare, RarityEpic, RarityLegendary,
	RarityAscended, RaritySet, RarityForged, RarityEvent,
}

// Valid reports whether r is a defined rarity.
func (r Rarity) Valid() bool {
	for _, known := range AllRarities {
		if r == known {
			return true
		}
	}
	return false
}

// Item is a piece of gear. Items declaring both hand slots are two-handed
// and are worn in the dedicated two-handed slot.
type Item struct {
	Name    string `json:"name" yaml:"name"`
	Slots   []Slot `json:"slots" yaml:"slots"`
	Att     int    `json:"att" yaml:"att"`
	Cha     int    `json:"cha" yaml:"cha"`
	Int     int    `json:"int" yaml:"int"`
	Dex     int    `json:"dex" yaml:"dex"`
	Luck    int    `json:"luck" yaml:"luck"`
	Rarity  Rarity `json:"rarity" yaml:"rarity"`
	Set     string `json:"set,omitempty" yaml:"set,omitempty"`
	Level   int    `json:"lvl" yaml:"lvl"`
	Degrade int    `json:"degrade,omitempty" yaml:"degrade,omitempty"`
}

// TwoHanded reports whether the item occupies both hand slots.
func (i *Item) TwoHanded() bool {
	return len(i.Slots) == 2
}

// WearSlot returns the slot the item is stored in when equipped.
//
// Precondition: i.Slots must be non-empty. Panics with
// "equipment: Item.WearSlot: precondition violated: item has no slots" otherwise.
func (i *Item) WearSlot() Slot {
	if len(i.Slots) == 0 {
		panic("equipment: Item.WearSlot: precondition violated: item has no slots")
	}
	if i.TwoHanded() {
		return SlotTwoHanded
	}
	return i.Slots[0]
}

// Shiny reports whether the item counts as a lucky trinket for miniboss
// requirement checks. Forged gear never qualifies.
func (i *Item) Shiny() bool {
	if i.Rarity == RarityForged {
		return false
	}
	return strings.Contains(strings.ToLower(i.Name), "shiny")
}

// Stats is a flat bundle of the five gear stats.
type Stats struct {
	Att  int `json:"att" yaml:"att"`
	Cha  int `json:"cha" yaml:"cha"`
	Int  int `json:"int" yaml:"int"`
	Dex  int `json:"dex" yaml:"dex"`
	Luck int `json:"luck" yaml:"luck"`
}

// Add returns the element-wise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Att:  s.Att + other.Att,
		Cha:  s.Cha + other.Cha,
		Int:  s.Int + other.Int,
		Dex:  s.Dex + other.Dex,
		Luck: s.Luck + other.Luck,
	}
}

// ItemStats returns the item's stat contribution.
func ItemStats(i *Item) Stats {
	return Stats{Att: i.Att, Cha: i.Cha, Int: i.Int, Dex: i.Dex, Luck: i.Luck}
}
