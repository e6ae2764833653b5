package evo

import (
	"math/rand/v2"

	"evopush/internal/model"
)

// Selector chooses one individual from a population. It never modifies the
// population, and every call is an independent draw. Select panics with
// model.ErrEmptyPopulation on an empty population, like model.Best.
type Selector[G any] interface {
	Name() string
	Select(pop *model.Population[G], rng *rand.Rand) *model.Individual[G]
}

func mustNotBeEmpty[G any](pop *model.Population[G]) {
	if pop.IsEmpty() {
		panic(model.ErrEmptyPopulation)
	}
}

type selectOperator[G any] struct {
	selector Selector[G]
}

// Select adapts a Selector into the first stage of a child pipeline.
func Select[G any](selector Selector[G]) Operator[*model.Population[G], *model.Individual[G]] {
	return selectOperator[G]{selector: selector}
}

func (s selectOperator[G]) Apply(pop *model.Population[G], rng *rand.Rand) (*model.Individual[G], error) {
	return s.selector.Select(pop, rng), nil
}

// BestSelector always returns the best individual.
type BestSelector[G any] struct{}

func (BestSelector[G]) Name() string {
	return "best"
}

func (BestSelector[G]) Select(pop *model.Population[G], _ *rand.Rand) *model.Individual[G] {
	return model.Best(pop)
}

// RandomSelector picks uniformly.
type RandomSelector[G any] struct{}

func (RandomSelector[G]) Name() string {
	return "random"
}

func (RandomSelector[G]) Select(pop *model.Population[G], rng *rand.Rand) *model.Individual[G] {
	mustNotBeEmpty(pop)
	return pop.At(rng.IntN(pop.Size()))
}

// TournamentSelector samples Size individuals with replacement and returns
// the one with the highest total.
type TournamentSelector[G any] struct {
	Size int
}

func (TournamentSelector[G]) Name() string {
	return "tournament"
}

func (s TournamentSelector[G]) Select(pop *model.Population[G], rng *rand.Rand) *model.Individual[G] {
	mustNotBeEmpty(pop)
	size := s.Size
	if size <= 0 {
		size = 2
	}

	best := pop.At(rng.IntN(pop.Size()))
	for i := 1; i < size; i++ {
		candidate := pop.At(rng.IntN(pop.Size()))
		if model.Compare(candidate.TestResults(), best.TestResults()) > 0 {
			best = candidate
		}
	}
	return best
}

// LexicaseSelector filters the population case by case in a random order,
// keeping only the individuals with the highest result on each case, and
// picks uniformly among the survivors.
type LexicaseSelector[G any] struct{}

func (LexicaseSelector[G]) Name() string {
	return "lexicase"
}

func (LexicaseSelector[G]) Select(pop *model.Population[G], rng *rand.Rand) *model.Individual[G] {
	mustNotBeEmpty(pop)

	candidates := make([]int, pop.Size())
	numCases := pop.At(0).TestResults().Len()
	for i := range candidates {
		candidates[i] = i
		numCases = min(numCases, pop.At(i).TestResults().Len())
	}

	for _, c := range rng.Perm(numCases) {
		if len(candidates) == 1 {
			break
		}
		best := pop.At(candidates[0]).TestResults().At(c)
		for _, idx := range candidates[1:] {
			best = max(best, pop.At(idx).TestResults().At(c))
		}
		survivors := candidates[:0]
		for _, idx := range candidates {
			if pop.At(idx).TestResults().At(c) == best {
				survivors = append(survivors, idx)
			}
		}
		candidates = survivors
	}
	return pop.At(candidates[rng.IntN(len(candidates))])
}
