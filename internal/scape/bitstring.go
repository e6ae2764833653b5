package scape

import (
	"fmt"
	"math/rand/v2"

	"evopush/internal/linear"
	"evopush/internal/model"
)

// CountOnes scores 1 for every set bit.
func CountOnes(bits linear.Bitstring) []int64 {
	scores := make([]int64, len(bits))
	for i, bit := range bits {
		if bit {
			scores[i] = 1
		}
	}
	return scores
}

// Hiff scores the hierarchical-if-and-only-if function. Every node of the
// halving tree over bits contributes one entry, children before parents, so
// a string of n bits yields 2n-1 scores. A leaf scores its length; an inner
// node scores its length when both halves are uniform and equal to each
// other, otherwise 0.
func Hiff(bits linear.Bitstring) []int64 {
	if len(bits) == 0 {
		return nil
	}
	scores := make([]int64, 2*len(bits)-1)
	hiffNode(bits, scores, 0)
	return scores
}

// hiffNode writes the scores for bits starting at next and reports whether
// bits is uniform along with the next free index.
func hiffNode(bits linear.Bitstring, scores []int64, next int) (bool, int) {
	if len(bits) < 2 {
		scores[next] = int64(len(bits))
		return true, next + 1
	}
	half := len(bits) / 2
	leftSame, next := hiffNode(bits[:half], scores, next)
	rightSame, next := hiffNode(bits[half:], scores, next)
	if leftSame && rightSame && bits[0] == bits[half] {
		scores[next] = int64(len(bits))
		return true, next + 1
	}
	scores[next] = 0
	return false, next + 1
}

// BitstringScorer adapts a per-site scoring function.
func BitstringScorer(fn func(linear.Bitstring) []int64) model.Scorer[linear.Bitstring] {
	return model.ScorerFunc[linear.Bitstring](func(bits linear.Bitstring) model.TestResults {
		return model.NewTestResults(fn(bits))
	})
}

// BitstringProblem evolves fixed-length bitstrings.
type BitstringProblem struct {
	name  string
	bits  int
	score func(linear.Bitstring) []int64
}

func NewBitstringProblem(name string, bits int) (BitstringProblem, error) {
	if bits <= 0 {
		return BitstringProblem{}, fmt.Errorf("bit length must be > 0: %d", bits)
	}
	var score func(linear.Bitstring) []int64
	switch name {
	case CountOnesName:
		score = CountOnes
	case HiffName:
		score = Hiff
	default:
		return BitstringProblem{}, fmt.Errorf("%w: %s", ErrUnknownProblem, name)
	}
	return BitstringProblem{name: name, bits: bits, score: score}, nil
}

func (p BitstringProblem) Name() string {
	return p.name
}

func (p BitstringProblem) Bits() int {
	return p.bits
}

func (p BitstringProblem) MakeGenome(rng *rand.Rand) linear.Bitstring {
	return linear.MakeRandomBitstring(p.bits, rng)
}

func (p BitstringProblem) Scorer() model.Scorer[linear.Bitstring] {
	return BitstringScorer(p.score)
}

func (p BitstringProblem) Replace(bit bool, rng *rand.Rand) bool {
	return linear.Flip(bit, rng)
}

// MaxTotal is the total of an all-ones genome, the best achievable score.
func (p BitstringProblem) MaxTotal() int64 {
	ones := make(linear.Bitstring, p.bits)
	for i := range ones {
		ones[i] = true
	}
	return model.NewTestResults(p.score(ones)).Total()
}
