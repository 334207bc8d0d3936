// Package equipment defines gear slots, items, and the worn-equipment
// aggregate used to compute character stat totals.
package equipment

// Slot identifies an equipment slot on a character.
type Slot string

const (
	// SlotHead is the head slot.
	SlotHead Slot = "head"
	// SlotNeck is the neck slot.
	SlotNeck Slot = "neck"
	// SlotChest is the chest slot.
	SlotChest Slot = "chest"
	// SlotGloves is the gloves slot.
	SlotGloves Slot = "gloves"
	// SlotBelt is the belt slot.
	SlotBelt Slot = "belt"
	// SlotLegs is the legs slot.
	SlotLegs Slot = "legs"
	// SlotBoots is the boots slot.
	SlotBoots Slot = "boots"
	// SlotLeft is the left-hand slot.
	SlotLeft Slot = "left"
	// SlotRight is the right-hand slot.
	SlotRight Slot = "right"
	// SlotRing is the ring slot.
	SlotRing Slot = "ring"
	// SlotCharm is the charm slot.
	SlotCharm Slot = "charm"
	// SlotTwoHanded holds a weapon occupying both hands. Equipping here
	// clears both hand slots and vice versa.
	SlotTwoHanded Slot = "twohanded"
)

// AllSlots lists every slot in display order.
var AllSlots = []Slot{
	SlotHead, SlotNeck, SlotChest, SlotGloves, SlotBelt, SlotLegs,
	SlotBoots, SlotLeft, SlotRight, SlotRing, SlotCharm, SlotTwoHanded,
}

var slotDisplayNames = map[Slot]string{
	SlotHead:      "Head",
	SlotNeck:      "Neck",
	SlotChest:     "Chest",
	SlotGloves:    "Gloves",
	SlotBelt:      "Belt",
	SlotLegs:      "Legs",
	SlotBoots:     "Boots",
	SlotLeft:      "Left Hand",
	SlotRight:     "Right Hand",
	SlotRing:      "Ring",
	SlotCharm:     "Charm",
	SlotTwoHanded: "Two Handed",
}

// Valid reports whether s is a defined slot.
func (s Slot) Valid() bool {
	_, ok := slotDisplayNames[s]
	return ok
}

// DisplayName returns the human-readable label for the slot.
//
// Precondition: s must be a defined slot. Panics with
// "equipment: Slot.DisplayName: precondition violated: unknown slot" otherwise.
func (s Slot) DisplayName() string {
	name, ok := slotDisplayNames[s]
	if !ok {
		panic("equipment: Slot.DisplayName: precondition violated: unknown slot")
	}
	return name
}
