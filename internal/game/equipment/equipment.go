package equipment

import "fmt"

// Equipment is the set of items a character currently wears, keyed by slot.
//
// Invariant: An item stored under a slot has that slot as its WearSlot.
// Invariant: The two-handed slot and the hand slots are never occupied at
// the same time.
type Equipment struct {
	Worn map[Slot]*Item `json:"worn" yaml:"worn"`
}

// New returns an empty Equipment aggregate.
func New() *Equipment {
	return &Equipment{Worn: make(map[Slot]*Item)}
}

// At returns the item worn in the given slot, or nil.
func (e *Equipment) At(slot Slot) *Item {
	if e.Worn == nil {
		return nil
	}
	return e.Worn[slot]
}

// Equip wears item in its declared slot, replacing any occupant. Equipping
// a two-handed item clears both hand slots; equipping into a hand slot
// clears the two-handed slot. The displaced items are returned.
//
// Precondition: item must be non-nil with at least one declared slot.
func (e *Equipment) Equip(item *Item) []*Item {
	if item == nil || len(item.Slots) == 0 {
		panic("equipment: Equip: precondition violated: item must declare a slot")
	}
	if e.Worn == nil {
		e.Worn = make(map[Slot]*Item)
	}

	target := item.WearSlot()
	cleared := []Slot{target}
	switch target {
	case SlotTwoHanded:
		cleared = append(cleared, SlotLeft, SlotRight)
	case SlotLeft, SlotRight:
		cleared = append(cleared, SlotTwoHanded)
	}

	var displaced []*Item
	for _, slot := range cleared {
		if prev := e.Worn[slot]; prev != nil {
			displaced = append(displaced, prev)
			delete(e.Worn, slot)
		}
	}
	e.Worn[target] = item
	return displaced
}

// Unequip removes and returns the item in the given slot, or nil when empty.
func (e *Equipment) Unequip(slot Slot) *Item {
	if e.Worn == nil {
		return nil
	}
	item := e.Worn[slot]
	delete(e.Worn, slot)
	return item
}

// Items returns every worn item in slot display order.
func (e *Equipment) Items() []*Item {
	var items []*Item
	for _, slot := range AllSlots {
		if item := e.At(slot); item != nil {
			items = append(items, item)
		}
	}
	return items
}

// StatTotals sums the stat contributions of every worn item.
//
// Postcondition: A two-handed weapon contributes exactly once.
func (e *Equipment) StatTotals() Stats {
	var total Stats
	for _, item := range e.Items() {
		total = total.Add(ItemStats(item))
	}
	return total
}

// SetPieces counts worn items per set name. Items without a set are ignored.
func (e *Equipment) SetPieces() map[string]int {
	counts := make(map[string]int)
	for _, item := range e.Items() {
		if item.Set != "" {
			counts[item.Set]++
		}
	}
	return counts
}

// WearsSet reports whether any worn item belongs to the named set.
func (e *Equipment) WearsSet(name string) bool {
	for _, item := range e.Items() {
		if item.Set == name {
			return true
		}
	}
	return false
}

// Validate checks aggregate invariants, accumulating all violations.
//
// Postcondition: Returns nil when every worn item sits in its declared slot
// and the hand slots do not conflict with the two-handed slot.
func (e *Equipment) Validate() error {
	if e.Worn == nil {
		return nil
	}
	for slot, item := range e.Worn {
		if item == nil {
			return fmt.Errorf("slot %s holds a nil item", slot)
		}
		if item.WearSlot() != slot {
			return fmt.Errorf("item %q stored in slot %s but wears in %s", item.Name, slot, item.WearSlot())
		}
	}
	if e.Worn[SlotTwoHanded] != nil && (e.Worn[SlotLeft] != nil || e.Worn[SlotRight] != nil) {
		return fmt.Errorf("two-handed slot occupied together with a hand slot")
	}
	return nil
}
