package evo

import (
	"evopush/internal/linear"
	"evopush/internal/model"
)

// ChildMaker assembles the operator that produces one scored child from a
// population. Callers build the pipeline once and apply it for every child.
type ChildMaker[G any] interface {
	Pipeline(selector Selector[G]) Operator[*model.Population[G], model.Individual[G]]
}

// XoMutate selects two parents, recombines copies of their genomes, mutates
// the child and scores it.
type XoMutate[G ~[]T, T any] struct {
	Recombinator Recombinator[G]
	Mutator      Mutator[G]
	Scorer       model.Scorer[G]
}

// TwoPointXoMutate pairs two-point crossover with 1/len mutation.
func TwoPointXoMutate[G ~[]T, T any](scorer model.Scorer[G], replace linear.ReplaceFunc[T]) XoMutate[G, T] {
	return XoMutate[G, T]{
		Recombinator: TwoPointXo[G, T]{},
		Mutator:      WithOneOverLength[G, T]{Replace: replace},
		Scorer:       scorer,
	}
}

// UniformXoMutate pairs uniform crossover with 1/len mutation.
func UniformXoMutate[G ~[]T, T any](scorer model.Scorer[G], replace linear.ReplaceFunc[T]) XoMutate[G, T] {
	return XoMutate[G, T]{
		Recombinator: UniformXo[G, T]{},
		Mutator:      WithOneOverLength[G, T]{Replace: replace},
		Scorer:       scorer,
	}
}

func (c XoMutate[G, T]) Pipeline(selector Selector[G]) Operator[*model.Population[G], model.Individual[G]] {
	parents := ThenMap(ApplyTwice(Select(selector)), Operator[*model.Individual[G], G](GenomeExtractor[G, T]{}))
	child := Then(Then(parents, Recombine(c.Recombinator)), Mutate(c.Mutator))
	return GenomeScorer(child, c.Scorer)
}
