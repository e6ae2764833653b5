package evo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"evopush/internal/model"
)

// GenerateOptions controls parallel population construction. Zero Workers
// means GOMAXPROCS; a nil Streams draws a randomly seeded source.
type GenerateOptions struct {
	Workers int
	Streams *StreamSource
}

func (o GenerateOptions) normalize() (GenerateOptions, error) {
	if o.Workers < 0 {
		return o, fmt.Errorf("workers must be >= 0: %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Streams == nil {
		o.Streams = NewStreamSource(0)
	}
	return o, nil
}

// Generate builds a population of size individuals, each with a fresh genome
// from maker scored by scorer.
func Generate[G any](ctx context.Context, size int, maker model.GenomeMaker[G], scorer model.Scorer[G], opts GenerateOptions) (model.Population[G], error) {
	if size < 0 {
		return model.Population[G]{}, fmt.Errorf("population size must be >= 0: %d", size)
	}
	opts, err := opts.normalize()
	if err != nil {
		return model.Population[G]{}, err
	}
	individuals, err := fill(ctx, size, opts, func(_ int, rng *rand.Rand) (model.Individual[G], error) {
		return model.GenerateIndividual(maker, scorer, rng), nil
	})
	if err != nil {
		return model.Population[G]{}, err
	}
	return model.NewPopulation(individuals), nil
}

// Rescore scores every genome of pop again, returning a new population whose
// genomes are copies of the originals.
func Rescore[G ~[]T, T any](ctx context.Context, pop *model.Population[G], scorer model.Scorer[G], workers int) (model.Population[G], error) {
	opts, err := GenerateOptions{Workers: workers}.normalize()
	if err != nil {
		return model.Population[G]{}, err
	}
	individuals, err := fill(ctx, pop.Size(), opts, func(i int, _ *rand.Rand) (model.Individual[G], error) {
		genome := slices.Clone(pop.At(i).Genome())
		return model.NewIndividual(genome, scorer.Score(genome)), nil
	})
	if err != nil {
		return model.Population[G]{}, err
	}
	return model.NewPopulation(individuals), nil
}

// fill runs build for every index in [0, n), one contiguous chunk per
// worker. Each chunk owns its generator and writes only its own slots.
// Panics inside build are re-raised here by the pool.
func fill[G any](ctx context.Context, n int, opts GenerateOptions, build func(i int, rng *rand.Rand) (model.Individual[G], error)) ([]model.Individual[G], error) {
	out := make([]model.Individual[G], n)
	if n == 0 {
		return out, ctx.Err()
	}

	workers := min(opts.Workers, n)
	p := pool.New().WithMaxGoroutines(workers).WithErrors().WithFirstError()
	for _, c := range chunks(n, workers) {
		rng := opts.Streams.Stream()
		p.Go(func() error {
			for i := c.start; i < c.end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ind, err := build(i, rng)
				if err != nil {
					return fmt.Errorf("individual %d: %w", i, err)
				}
				out[i] = ind
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type chunk struct {
	start, end int
}

// chunks splits [0, n) into parts contiguous ranges whose sizes differ by at
// most one.
func chunks(n, parts int) []chunk {
	if parts <= 0 || n <= 0 {
		return nil
	}
	parts = min(parts, n)
	out := make([]chunk, 0, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < extra {
			size++
		}
		out = append(out, chunk{start: start, end: start + size})
		start += size
	}
	return out
}
