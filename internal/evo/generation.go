package evo

import (
	"context"
	"fmt"
	"math/rand/v2"

	"evopush/internal/model"
)

// GenerationOptions configures how children are produced. The zero value
// uses GOMAXPROCS workers and a randomly seeded stream source.
type GenerationOptions struct {
	Workers int
	Streams *StreamSource
}

// Generation is one population together with the strategy that produces the
// next one. Transitions return a new Generation and leave the receiver
// untouched.
type Generation[G any] struct {
	population model.Population[G]
	selector   Selector[G]
	childMaker ChildMaker[G]
	pipeline   Operator[*model.Population[G], model.Individual[G]]
	opts       GenerateOptions
}

func NewGeneration[G any](pop model.Population[G], selector Selector[G], childMaker ChildMaker[G], opts GenerationOptions) (*Generation[G], error) {
	if selector == nil {
		return nil, fmt.Errorf("selector is required")
	}
	if childMaker == nil {
		return nil, fmt.Errorf("child maker is required")
	}
	normalized, err := GenerateOptions{Workers: opts.Workers, Streams: opts.Streams}.normalize()
	if err != nil {
		return nil, err
	}
	return &Generation[G]{
		population: pop,
		selector:   selector,
		childMaker: childMaker,
		pipeline:   childMaker.Pipeline(selector),
		opts:       normalized,
	}, nil
}

func (g *Generation[G]) Population() *model.Population[G] {
	return &g.population
}

func (g *Generation[G]) Selector() Selector[G] {
	return g.selector
}

// SerialNext builds the next generation on the calling goroutine from a
// single stream.
func (g *Generation[G]) SerialNext(ctx context.Context) (*Generation[G], error) {
	rng := g.opts.Streams.Stream()
	children := make([]model.Individual[G], g.population.Size())
	for i := range children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		child, err := g.pipeline.Apply(&g.population, rng)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children[i] = child
	}
	return g.next(children), nil
}

// ParNext builds the next generation across the configured workers, each
// with its own stream.
func (g *Generation[G]) ParNext(ctx context.Context) (*Generation[G], error) {
	children, err := fill(ctx, g.population.Size(), g.opts, func(_ int, rng *rand.Rand) (model.Individual[G], error) {
		return g.pipeline.Apply(&g.population, rng)
	})
	if err != nil {
		return nil, err
	}
	return g.next(children), nil
}

func (g *Generation[G]) next(children []model.Individual[G]) *Generation[G] {
	return &Generation[G]{
		population: model.NewPopulation(children),
		selector:   g.selector,
		childMaker: g.childMaker,
		pipeline:   g.pipeline,
		opts:       g.opts,
	}
}
