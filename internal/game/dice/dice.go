// Package dice provides the randomness abstraction used by every probability
// roll in battle: crits, enemy skill choice, flee attempts and loot.
package dice

// Source is the randomness provider for battle rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniform random float in [0, 1).
	Float64() float64
}

// RangeInclusive returns a uniform int in [lo, hi].
// When hi < lo the range collapses to lo and src is not consulted.
//
// Postcondition: lo <= result <= max(lo, hi).
func RangeInclusive(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Roll reports whether a uniform draw falls below chance.
// A chance <= 0 never succeeds and a chance >= 1 always does; both still draw
// so that a seeded sequence stays aligned regardless of the chance value.
func Roll(src Source, chance float64) bool {
	return src.Float64() < chance
}
