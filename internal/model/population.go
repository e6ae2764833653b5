package model

import (
	"errors"
	"slices"
)

// ErrEmptyPopulation is the panic value for queries that need at least one
// individual.
var ErrEmptyPopulation = errors.New("population is empty")

// Population is an ordered, fixed collection of individuals scored under the
// same scorer.
type Population[G any] struct {
	individuals []Individual[G]
}

// NewPopulation takes ownership of individuals.
func NewPopulation[G any](individuals []Individual[G]) Population[G] {
	return Population[G]{individuals: individuals}
}

func (p Population[G]) Size() int {
	return len(p.individuals)
}

func (p Population[G]) IsEmpty() bool {
	return len(p.individuals) == 0
}

func (p Population[G]) At(i int) *Individual[G] {
	return &p.individuals[i]
}

// Individuals returns a copy of the individual list.
func (p Population[G]) Individuals() []Individual[G] {
	copied := make([]Individual[G], len(p.individuals))
	copy(copied, p.individuals)
	return copied
}

// Sorted returns the individuals ordered by descending total. Ties keep
// population order.
func (p Population[G]) Sorted() []Individual[G] {
	sorted := p.Individuals()
	slices.SortStableFunc(sorted, func(a, b Individual[G]) int {
		return Compare(b.results, a.results)
	})
	return sorted
}

// Best returns the individual with the highest total. The first maximal
// individual wins ties. Best panics with ErrEmptyPopulation when the
// population is empty.
func Best[G any](p *Population[G]) *Individual[G] {
	if p.IsEmpty() {
		panic(ErrEmptyPopulation)
	}
	best := &p.individuals[0]
	for i := 1; i < len(p.individuals); i++ {
		if Compare(p.individuals[i].results, best.results) > 0 {
			best = &p.individuals[i]
		}
	}
	return best
}
