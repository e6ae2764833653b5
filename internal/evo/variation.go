package evo

import (
	"math/rand/v2"
	"slices"

	"evopush/internal/linear"
	"evopush/internal/model"
)

// Recombinator builds one child genome from two parents.
type Recombinator[G any] interface {
	Recombine(parents Pair[G], rng *rand.Rand) G
}

// Mutator returns a new genome derived from genome. The input is never
// modified.
type Mutator[G any] interface {
	Mutate(genome G, rng *rand.Rand) G
}

type UniformXo[G ~[]T, T any] struct{}

func (UniformXo[G, T]) Recombine(parents Pair[G], rng *rand.Rand) G {
	return G(linear.UniformXo([]T(parents[0]), []T(parents[1]), rng))
}

type TwoPointXo[G ~[]T, T any] struct{}

func (TwoPointXo[G, T]) Recombine(parents Pair[G], rng *rand.Rand) G {
	return G(linear.TwoPointXo([]T(parents[0]), []T(parents[1]), rng))
}

// WithRate replaces each site independently with probability Rate.
type WithRate[G ~[]T, T any] struct {
	Rate    float64
	Replace linear.ReplaceFunc[T]
}

func (m WithRate[G, T]) Mutate(genome G, rng *rand.Rand) G {
	return G(linear.MutateWithRate([]T(genome), m.Rate, m.Replace, rng))
}

// WithOneOverLength mutates at rate 1/len, about one site per child.
type WithOneOverLength[G ~[]T, T any] struct {
	Replace linear.ReplaceFunc[T]
}

func (m WithOneOverLength[G, T]) Mutate(genome G, rng *rand.Rand) G {
	return G(linear.MutateOneOverLength([]T(genome), m.Replace, rng))
}

// FlipWithRate is the bit-flip mutator for bitstrings.
func FlipWithRate(rate float64) Mutator[linear.Bitstring] {
	return WithRate[linear.Bitstring, bool]{Rate: rate, Replace: linear.Flip}
}

func FlipOneOverLength() Mutator[linear.Bitstring] {
	return WithOneOverLength[linear.Bitstring, bool]{Replace: linear.Flip}
}

type recombineOperator[G any] struct {
	r Recombinator[G]
}

func Recombine[G any](r Recombinator[G]) Operator[Pair[G], G] {
	return recombineOperator[G]{r: r}
}

func (o recombineOperator[G]) Apply(parents Pair[G], rng *rand.Rand) (G, error) {
	return o.r.Recombine(parents, rng), nil
}

type mutateOperator[G any] struct {
	m Mutator[G]
}

func Mutate[G any](m Mutator[G]) Operator[G, G] {
	return mutateOperator[G]{m: m}
}

func (o mutateOperator[G]) Apply(genome G, rng *rand.Rand) (G, error) {
	return o.m.Mutate(genome, rng), nil
}

// GenomeExtractor copies the genome out of a selected individual so the
// child never shares storage with its parent.
type GenomeExtractor[G ~[]T, T any] struct{}

func (GenomeExtractor[G, T]) Apply(ind *model.Individual[G], _ *rand.Rand) (G, error) {
	return slices.Clone(ind.Genome()), nil
}

type genomeScorer[G any] struct {
	genomes Operator[*model.Population[G], G]
	scorer  model.Scorer[G]
}

// GenomeScorer turns a genome-producing pipeline into one producing scored
// individuals.
func GenomeScorer[G any](genomes Operator[*model.Population[G], G], scorer model.Scorer[G]) Operator[*model.Population[G], model.Individual[G]] {
	return genomeScorer[G]{genomes: genomes, scorer: scorer}
}

func (s genomeScorer[G]) Apply(pop *model.Population[G], rng *rand.Rand) (model.Individual[G], error) {
	genome, err := s.genomes.Apply(pop, rng)
	if err != nil {
		return model.Individual[G]{}, err
	}
	return model.NewIndividual(genome, s.scorer.Score(genome)), nil
}
