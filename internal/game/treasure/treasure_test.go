package treasure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventure/internal/game/treasure"
)

func TestAdd(t *testing.T) {
	a := treasure.New(1, 0, 2, 0, 0, 1)
	b := treasure.New(0, 3, 1, 0, 0, 0)

	sum := a.Add(b)
	assert.Equal(t, treasure.New(1, 3, 3, 0, 0, 1), sum)
	// Operands untouched.
	assert.Equal(t, treasure.New(1, 0, 2, 0, 0, 1), a)
	assert.Equal(t, treasure.New(0, 3, 1, 0, 0, 0), b)
}

func TestSubSaturatesAtZero(t *testing.T) {
	a := treasure.New(1, 0, 0, 0, 0, 0)
	b := treasure.New(3, 2, 0, 0, 0, 0)

	diff := a.Sub(b)
	assert.Equal(t, treasure.Treasure{}, diff)
	assert.True(t, diff.Valid())
}

func TestNewPanicsOnNegative(t *testing.T) {
	assert.PanicsWithValue(t, "treasure: New called with negative count", func() {
		treasure.New(-1, 0, 0, 0, 0, 0)
	})
}

func TestTotalAndIsZero(t *testing.T) {
	assert.True(t, treasure.Treasure{}.IsZero())
	assert.Equal(t, 0, treasure.Treasure{}.Total())

	b := treasure.New(2, 0, 1, 0, 0, 0)
	assert.False(t, b.IsZero())
	assert.Equal(t, 3, b.Total())
}

func TestString(t *testing.T) {
	assert.Equal(t, "no chests", treasure.Treasure{}.String())
	assert.Equal(t, "2 normal, 1 legendary", treasure.New(2, 0, 0, 1, 0, 0).String())
}

func TestValidDetectsCorruptCounts(t *testing.T) {
	corrupt := treasure.Treasure{Rare: -1}
	assert.False(t, corrupt.Valid())
}

// Property-based tests

func genTreasure(t *rapid.T, label string) treasure.Treasure {
	draw := func(name string) int {
		return rapid.IntRange(0, 50).Draw(t, label+"_"+name)
	}
	return treasure.New(draw("normal"), draw("rare"), draw("epic"),
		draw("legendary"), draw("ascended"), draw("set"))
}

func TestPropertySubNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genTreasure(t, "a")
		b := genTreasure(t, "b")
		diff := a.Sub(b)
		if !diff.Valid() {
			t.Fatalf("Sub produced negative counter: %+v", diff)
		}
	})
}

func TestPropertyAddCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genTreasure(t, "a")
		b := genTreasure(t, "b")
		if a.Add(b) != b.Add(a) {
			t.Fatalf("Add not commutative for %+v and %+v", a, b)
		}
	})
}

func TestPropertyAddThenSubRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genTreasure(t, "a")
		b := genTreasure(t, "b")
		if got := a.Add(b).Sub(b); got != a {
			t.Fatalf("Add/Sub round trip: got %+v want %+v", got, a)
		}
	})
}
