// Package linear implements variation on fixed-length slice genomes.
package linear

import (
	"fmt"
	"math/rand/v2"
)

func mustSameLength(a, b int) {
	if a != b {
		panic(fmt.Sprintf("linear: parents must have equal length: %d != %d", a, b))
	}
}

// UniformXo builds a child that takes each position from a or b with equal
// probability, one draw per position. It panics when the parents differ in
// length.
func UniformXo[T any](a, b []T, rng *rand.Rand) []T {
	mustSameLength(len(a), len(b))
	child := make([]T, len(a))
	for i := range a {
		if rng.IntN(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}

// TwoPointXo copies a and overwrites [first, second) with b, where first and
// second are independent uniform positions ordered so first <= second. It
// panics when the parents differ in length.
func TwoPointXo[T any](a, b []T, rng *rand.Rand) []T {
	mustSameLength(len(a), len(b))
	child := make([]T, len(a))
	copy(child, a)
	if len(a) == 0 {
		return child
	}
	first := rng.IntN(len(a))
	second := rng.IntN(len(a))
	if second < first {
		first, second = second, first
	}
	copy(child[first:second], b[first:second])
	return child
}
