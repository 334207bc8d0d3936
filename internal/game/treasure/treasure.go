// Package treasure defines the chest bundle awarded by encounters.
package treasure

import (
	"fmt"
	"strings"
)

// Treasure is an immutable bundle of chest counts by rarity. Arithmetic
// returns new values; callers never mutate a bundle in place.
//
// Invariant: A Treasure produced by New, Add, or Sub has no negative counter.
type Treasure struct {
	Normal    int `json:"normal" yaml:"normal"`
	Rare      int `json:"rare" yaml:"rare"`
	Epic      int `json:"epic" yaml:"epic"`
	Legendary int `json:"legendary" yaml:"legendary"`
	Ascended  int `json:"ascended" yaml:"ascended"`
	Set       int `json:"set" yaml:"set"`
}

// New builds a Treasure from per-rarity counts.
//
// Precondition: No count may be negative. Panics with
// "treasure: New called with negative count" otherwise.
func New(normal, rare, epic, legendary, ascended, set int) Treasure {
	t := Treasure{
		Normal:    normal,
		Rare:      rare,
		Epic:      epic,
		Legendary: legendary,
		Ascended:  ascended,
		Set:       set,
	}
	for _, c := range t.counts() {
		if c < 0 {
			panic("treasure: New called with negative count")
		}
	}
	return t
}

// Add returns the element-wise sum of t and other.
//
// Postcondition: Neither receiver nor argument is modified.
func (t Treasure) Add(other Treasure) Treasure {
	return Treasure{
		Normal:    t.Normal + other.Normal,
		Rare:      t.Rare + other.Rare,
		Epic:      t.Epic + other.Epic,
		Legendary: t.Legendary + other.Legendary,
		Ascended:  t.Ascended + other.Ascended,
		Set:       t.Set + other.Set,
	}
}

// Sub returns t minus other, saturating each counter at zero.
//
// Postcondition: No counter in the result is negative.
func (t Treasure) Sub(other Treasure) Treasure {
	return Treasure{
		Normal:    saturate(t.Normal - other.Normal),
		Rare:      saturate(t.Rare - other.Rare),
		Epic:      saturate(t.Epic - other.Epic),
		Legendary: saturate(t.Legendary - other.Legendary),
		Ascended:  saturate(t.Ascended - other.Ascended),
		Set:       saturate(t.Set - other.Set),
	}
}

func saturate(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Total returns the number of chests across all rarities.
func (t Treasure) Total() int {
	sum := 0
	for _, c := range t.counts() {
		sum += c
	}
	return sum
}

// IsZero reports whether the bundle contains no chests.
func (t Treasure) IsZero() bool {
	return t.Total() == 0
}

// Valid reports whether every counter is non-negative. Bundles built through
// this package always are; Valid guards values decoded from storage.
func (t Treasure) Valid() bool {
	for _, c := range t.counts() {
		if c < 0 {
			return false
		}
	}
	return true
}

func (t Treasure) counts() [6]int {
	return [6]int{t.Normal, t.Rare, t.Epic, t.Legendary, t.Ascended, t.Set}
}

var rarityNames = [6]string{"normal", "rare", "epic", "legendary", "ascended", "set"}

// String lists the non-zero counters, e.g. "2 normal, 1 legendary".
// A zero bundle renders as "no chests".
func (t Treasure) String() string {
	var parts []string
	for i, c := range t.counts() {
		if c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, rarityNames[i]))
		}
	}
	if len(parts) == 0 {
		return "no chests"
	}
	return strings.Join(parts, ", ")
}
