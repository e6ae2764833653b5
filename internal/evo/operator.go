package evo

import (
	"fmt"
	"math/rand/v2"
)

// Operator maps an input to an output using rng as its only source of
// randomness. Given the same stream state it always produces the same
// result.
type Operator[In, Out any] interface {
	Apply(in In, rng *rand.Rand) (Out, error)
}

type OperatorFunc[In, Out any] func(in In, rng *rand.Rand) (Out, error)

func (f OperatorFunc[In, Out]) Apply(in In, rng *rand.Rand) (Out, error) {
	return f(in, rng)
}

// Pair is the fixed-size tuple flowing between ApplyTwice and ThenMap.
type Pair[T any] [2]T

type then[A, B, C any] struct {
	first  Operator[A, B]
	second Operator[B, C]
}

// Then feeds the output of first into second.
func Then[A, B, C any](first Operator[A, B], second Operator[B, C]) Operator[A, C] {
	return then[A, B, C]{first: first, second: second}
}

func (t then[A, B, C]) Apply(in A, rng *rand.Rand) (C, error) {
	mid, err := t.first.Apply(in, rng)
	if err != nil {
		var zero C
		return zero, err
	}
	return t.second.Apply(mid, rng)
}

type thenMap[A, B, C any] struct {
	first Operator[A, Pair[B]]
	each  Operator[B, C]
}

// ThenMap applies each to both elements produced by first, left to right.
func ThenMap[A, B, C any](first Operator[A, Pair[B]], each Operator[B, C]) Operator[A, Pair[C]] {
	return thenMap[A, B, C]{first: first, each: each}
}

func (t thenMap[A, B, C]) Apply(in A, rng *rand.Rand) (Pair[C], error) {
	var out Pair[C]
	pair, err := t.first.Apply(in, rng)
	if err != nil {
		return out, err
	}
	for i, item := range pair {
		out[i], err = t.each.Apply(item, rng)
		if err != nil {
			return Pair[C]{}, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

type applyTwice[A, B any] struct {
	op Operator[A, B]
}

// ApplyTwice runs op twice on the same input, two independent draws from
// the stream.
func ApplyTwice[A, B any](op Operator[A, B]) Operator[A, Pair[B]] {
	return applyTwice[A, B]{op: op}
}

func (t applyTwice[A, B]) Apply(in A, rng *rand.Rand) (Pair[B], error) {
	first, err := t.op.Apply(in, rng)
	if err != nil {
		return Pair[B]{}, err
	}
	second, err := t.op.Apply(in, rng)
	if err != nil {
		return Pair[B]{}, err
	}
	return Pair[B]{first, second}, nil
}

// Identity returns its input.
func Identity[T any]() Operator[T, T] {
	return OperatorFunc[T, T](func(in T, _ *rand.Rand) (T, error) {
		return in, nil
	})
}

// Constant ignores its input and returns v.
func Constant[In, Out any](v Out) Operator[In, Out] {
	return OperatorFunc[In, Out](func(_ In, _ *rand.Rand) (Out, error) {
		return v, nil
	})
}
