package scape

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"evopush/internal/model"
	"evopush/internal/push"
)

const (
	MedianInputMin = -100
	MedianInputMax = 100

	// DefaultMedianPenalty is the error charged when a program leaves no
	// answer or fails fatally.
	DefaultMedianPenalty = 1_000
)

var medianInputs = []string{"x", "y", "z"}

type MedianCase struct {
	X, Y, Z  int64
	Expected int64
}

func Median(x, y, z int64) int64 {
	values := []int64{x, y, z}
	slices.Sort(values)
	return values[1]
}

// MedianCases draws n cases with inputs in [MedianInputMin, MedianInputMax].
func MedianCases(n int, rng *rand.Rand) []MedianCase {
	draw := func() int64 {
		return MedianInputMin + rng.Int64N(MedianInputMax-MedianInputMin+1)
	}
	cases := make([]MedianCase, n)
	for i := range cases {
		x, y, z := draw(), draw(), draw()
		cases[i] = MedianCase{X: x, Y: y, Z: z, Expected: Median(x, y, z)}
	}
	return cases
}

// MedianScorer runs a Plushy program once per case with inputs x, y and z
// bound, and reads the answer from the top of the int stack. Each case
// scores the negated absolute error, capped at Penalty.
type MedianScorer struct {
	Cases        []MedianCase
	MaxStackSize int
	StepLimit    int
	Penalty      int64
}

func (s MedianScorer) penalty() int64 {
	if s.Penalty <= 0 {
		return DefaultMedianPenalty
	}
	return s.Penalty
}

func (s MedianScorer) Score(genome push.Plushy) model.TestResults {
	values := make([]int64, len(s.Cases))
	program, err := push.ToProgram(genome)
	if err != nil {
		for i := range values {
			values[i] = -s.penalty()
		}
		return model.NewTestResults(values)
	}
	for i, c := range s.Cases {
		values[i] = -s.caseError(program, c)
	}
	return model.NewTestResults(values)
}

func (s MedianScorer) caseError(program push.Program, c MedianCase) int64 {
	answer, err := s.Answer(program, c)
	if err != nil {
		return s.penalty()
	}
	return min(absDiff(c.Expected, answer), s.penalty())
}

// Answer runs program for one case and returns the top int.
func (s MedianScorer) Answer(program push.Program, c MedianCase) (int64, error) {
	builder := push.NewBuilder().
		WithIntInput("x", c.X).
		WithIntInput("y", c.Y).
		WithIntInput("z", c.Z)
	if s.MaxStackSize > 0 {
		builder = builder.WithMaxStackSize(s.MaxStackSize)
	}
	state, err := push.RunProgram(builder, program, push.RunOptions{StepLimit: s.StepLimit})
	if err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}
	answer, err := state.Int().Top()
	if err != nil {
		return 0, errors.New("no answer on int stack")
	}
	return answer, nil
}

// absDiff returns |a-b| saturated at MaxInt64.
func absDiff(a, b int64) int64 {
	var d uint64
	if a > b {
		d = uint64(a) - uint64(b)
	} else {
		d = uint64(b) - uint64(a)
	}
	if d > uint64(1<<63-1) {
		return 1<<63 - 1
	}
	return int64(d)
}

type MedianOptions struct {
	Cases        int
	GenomeLength int
	MaxStackSize int
	StepLimit    int
	Penalty      int64
}

// MedianProblem evolves Plushy genomes for the median-of-three task.
type MedianProblem struct {
	scorer       MedianScorer
	generator    push.GeneGenerator
	genomeLength int
}

// NewMedianProblem draws the training cases from rng.
func NewMedianProblem(opts MedianOptions, rng *rand.Rand) (MedianProblem, error) {
	if opts.Cases <= 0 {
		return MedianProblem{}, fmt.Errorf("case count must be > 0: %d", opts.Cases)
	}
	if opts.GenomeLength <= 0 {
		return MedianProblem{}, fmt.Errorf("genome length must be > 0: %d", opts.GenomeLength)
	}
	if opts.MaxStackSize > 0 && opts.GenomeLength > opts.MaxStackSize {
		return MedianProblem{}, fmt.Errorf("genome length %d exceeds max stack size %d", opts.GenomeLength, opts.MaxStackSize)
	}
	return MedianProblem{
		scorer: MedianScorer{
			Cases:        MedianCases(opts.Cases, rng),
			MaxStackSize: opts.MaxStackSize,
			StepLimit:    opts.StepLimit,
			Penalty:      opts.Penalty,
		},
		generator:    push.DefaultGeneGenerator(medianInputs...),
		genomeLength: opts.GenomeLength,
	}, nil
}

func (p MedianProblem) Name() string {
	return MedianName
}

func (p MedianProblem) Cases() []MedianCase {
	return slices.Clone(p.scorer.Cases)
}

func (p MedianProblem) MakeGenome(rng *rand.Rand) push.Plushy {
	return p.generator.Genome(p.genomeLength, rng)
}

func (p MedianProblem) Scorer() model.Scorer[push.Plushy] {
	return p.scorer
}

func (p MedianProblem) Replace(gene push.Gene, rng *rand.Rand) push.Gene {
	return p.generator.Replace(gene, rng)
}

// HoldoutScorer scores against n fresh cases drawn from rng with the same
// limits and penalty as the training scorer.
func (p MedianProblem) HoldoutScorer(n int, rng *rand.Rand) model.Scorer[push.Plushy] {
	holdout := p.scorer
	holdout.Cases = MedianCases(n, rng)
	return holdout
}

// MaxTotal is zero: every case answered exactly.
func (p MedianProblem) MaxTotal() int64 {
	return 0
}
