// Package dice provides the randomness abstraction for the adventure engine.
// Every mechanic that draws randomness does so through a Source, so tests and
// the simulator can substitute deterministic implementations.
package dice

// Source is the randomness provider for all encounter rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniform random int in [lo, hi], inclusive on both ends.
//
// Precondition: lo <= hi. Panics with "dice: Between called with lo > hi"
// otherwise.
// Postcondition: lo <= result <= hi.
func Between(src Source, lo, hi int) int {
	if lo > hi {
		panic("dice: Between called with lo > hi")
	}
	return lo + src.Intn(hi-lo+1)
}

// BetweenFloat returns a uniform random float64 in [lo, hi).
//
// Precondition: lo <= hi. When lo == hi, returns lo.
func BetweenFloat(src Source, lo, hi float64) float64 {
	if lo > hi {
		panic("dice: BetweenFloat called with lo > hi")
	}
	if lo == hi {
		return lo
	}
	// 1<<53 is the largest power of two exactly representable in a float64
	// mantissa, matching math/rand's Float64 resolution.
	const steps = 1 << 53
	frac := float64(int53(src)) / steps
	return lo + frac*(hi-lo)
}

// int53 composes a uniform value in [0, 1<<53) from two Intn draws so that
// BetweenFloat only depends on the Source contract.
func int53(src Source) int64 {
	const (
		hiBits = 1 << 26
		loBits = 1 << 27
	)
	return int64(src.Intn(hiBits))*loBits + int64(src.Intn(loBits))
}

// Choice returns a uniformly selected element of items.
//
// Precondition: items must be non-empty. Panics with "dice: Choice called
// with no items" otherwise.
func Choice[T any](src Source, items []T) T {
	if len(items) == 0 {
		panic("dice: Choice called with no items")
	}
	return items[src.Intn(len(items))]
}
