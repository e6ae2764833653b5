package linear

import "math/rand/v2"

// ReplaceFunc produces the new value for a mutated site.
type ReplaceFunc[T any] func(current T, rng *rand.Rand) T

// MutateWithRate returns a copy of genome where each site is replaced with
// probability rate, one draw per site.
func MutateWithRate[T any](genome []T, rate float64, replace ReplaceFunc[T], rng *rand.Rand) []T {
	child := make([]T, len(genome))
	for i, gene := range genome {
		if rng.Float64() < rate {
			child[i] = replace(gene, rng)
		} else {
			child[i] = gene
		}
	}
	return child
}

// MutateOneOverLength mutates with rate 1/len(genome), one expected change
// per genome.
func MutateOneOverLength[T any](genome []T, replace ReplaceFunc[T], rng *rand.Rand) []T {
	return MutateWithRate(genome, OneOverLength(len(genome)), replace, rng)
}

func OneOverLength(length int) float64 {
	if length == 0 {
		return 0
	}
	return 1 / float64(length)
}

// CountDiff returns the number of positions where a and b differ.
func CountDiff[T comparable](a, b []T) int {
	mustSameLength(len(a), len(b))
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
