package model

import "math/rand/v2"

// Scorer turns a genome into its result vector. The genome is passed as a
// read-only view and must not be modified. Implementations must be safe to
// call concurrently on different genomes.
type Scorer[G any] interface {
	Score(genome G) TestResults
}

type ScorerFunc[G any] func(genome G) TestResults

func (f ScorerFunc[G]) Score(genome G) TestResults {
	return f(genome)
}

// GenomeMaker builds a random genome from the supplied stream.
type GenomeMaker[G any] interface {
	MakeGenome(rng *rand.Rand) G
}

type GenomeMakerFunc[G any] func(rng *rand.Rand) G

func (f GenomeMakerFunc[G]) MakeGenome(rng *rand.Rand) G {
	return f(rng)
}

// Individual pairs a genome with the results it was scored with. It is never
// modified after construction; variation always builds a new Individual.
type Individual[G any] struct {
	genome  G
	results TestResults
}

func NewIndividual[G any](genome G, results TestResults) Individual[G] {
	return Individual[G]{genome: genome, results: results}
}

// GenerateIndividual makes a random genome and scores it immediately.
func GenerateIndividual[G any](maker GenomeMaker[G], scorer Scorer[G], rng *rand.Rand) Individual[G] {
	genome := maker.MakeGenome(rng)
	return Individual[G]{genome: genome, results: scorer.Score(genome)}
}

// Genome returns the individual's genome. Slice genomes share storage with
// the individual and must be cloned before modification.
func (i Individual[G]) Genome() G {
	return i.genome
}

func (i Individual[G]) TestResults() TestResults {
	return i.results
}

func (i Individual[G]) Total() int64 {
	return i.results.total
}
