package evo

import (
	"math/rand/v2"
	"sync/atomic"
)

// StreamSource hands out independent PCG streams derived from one master
// seed. Streams are numbered in the order they are requested, so a run that
// requests them in a fixed order is reproducible.
type StreamSource struct {
	seed uint64
	next atomic.Uint64
}

// NewStreamSource returns a source for seed. A zero seed draws a random one.
func NewStreamSource(seed uint64) *StreamSource {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return &StreamSource{seed: seed}
}

func (s *StreamSource) Seed() uint64 {
	return s.seed
}

// Stream returns a fresh generator. It is safe for concurrent use, but the
// returned generator must stay on one goroutine.
func (s *StreamSource) Stream() *rand.Rand {
	n := s.next.Add(1)
	return rand.New(rand.NewPCG(s.seed, splitmix64(s.seed+n*0x9e3779b97f4a7c15)))
}

func splitmix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
