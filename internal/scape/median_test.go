package scape

import (
	"math/rand/v2"
	"testing"

	"evopush/internal/push"
)

const medianProgram = "in:x in:y int_min in:x in:y int_max in:z int_min int_max"

func TestMedian(t *testing.T) {
	cases := [][4]int64{{1, 2, 3, 2}, {3, 1, 2, 2}, {-5, -5, 9, -5}, {100, -100, 0, 0}}
	for _, c := range cases {
		if got := Median(c[0], c[1], c[2]); got != c[3] {
			t.Fatalf("median(%d, %d, %d): expected %d, got %d", c[0], c[1], c[2], c[3], got)
		}
	}
}

func TestMedianCasesInRange(t *testing.T) {
	cases := MedianCases(200, rand.New(rand.NewPCG(8, 9)))
	if len(cases) != 200 {
		t.Fatalf("expected 200 cases, got %d", len(cases))
	}
	for _, c := range cases {
		for _, v := range []int64{c.X, c.Y, c.Z} {
			if v < MedianInputMin || v > MedianInputMax {
				t.Fatalf("input out of range: %+v", c)
			}
		}
		if c.Expected != Median(c.X, c.Y, c.Z) {
			t.Fatalf("wrong expected value: %+v", c)
		}
	}
}

func TestMedianScorerPerfectProgram(t *testing.T) {
	scorer := MedianScorer{Cases: MedianCases(50, rand.New(rand.NewPCG(1, 1)))}
	results := scorer.Score(push.ParsePlushy(medianProgram))
	if results.Total() != 0 {
		t.Fatalf("expected a perfect score, got %v", results)
	}
	if results.Len() != 50 {
		t.Fatalf("expected one result per case, got %d", results.Len())
	}
}

func TestMedianScorerErrors(t *testing.T) {
	cases := []MedianCase{{X: 1, Y: 5, Z: 9, Expected: 5}, {X: -3, Y: 0, Z: 4, Expected: 0}}
	scorer := MedianScorer{Cases: cases, Penalty: 500}

	// Always answers x.
	results := scorer.Score(push.ParsePlushy("in:x"))
	if results.At(0) != -4 || results.At(1) != -3 {
		t.Fatalf("unexpected errors %v", results)
	}

	empty := scorer.Score(push.ParsePlushy("bool:true"))
	if empty.At(0) != -500 || empty.At(1) != -500 {
		t.Fatalf("expected penalty without an answer, got %v", empty)
	}

	malformed := scorer.Score(push.Plushy{"not_an_instruction"})
	if malformed.Total() != -1000 {
		t.Fatalf("expected penalty for malformed genome, got %v", malformed)
	}

	huge := scorer.Score(push.Plushy{"int:9223372036854775807"})
	if huge.At(0) != -500 {
		t.Fatalf("expected error capped at penalty, got %v", huge)
	}
}

func TestMedianScorerPenalizesProgramsThatDoNotFit(t *testing.T) {
	scorer := MedianScorer{Cases: []MedianCase{{X: 1, Y: 2, Z: 3, Expected: 2}}, MaxStackSize: 4}
	results := scorer.Score(push.ParsePlushy("int:1 int:2 int:3 int:4"))
	if results.At(0) != -2 {
		t.Fatalf("program within capacity should answer 4: %v", results)
	}
	tooLong := scorer.Score(push.ParsePlushy("in:x int_dup int_dup int_dup int_dup"))
	if tooLong.At(0) != -DefaultMedianPenalty {
		t.Fatalf("expected oversized program to be penalized, got %v", tooLong)
	}
}

func TestMedianProblem(t *testing.T) {
	p, err := NewMedianProblem(MedianOptions{Cases: 10, GenomeLength: 20}, rand.New(rand.NewPCG(5, 6)))
	if err != nil {
		t.Fatalf("new problem: %v", err)
	}
	rng := rand.New(rand.NewPCG(7, 7))
	genome := p.MakeGenome(rng)
	if len(genome) != 20 {
		t.Fatalf("expected 20 genes, got %d", len(genome))
	}
	if _, err := push.ToProgram(genome); err != nil {
		t.Fatalf("generated genome should decode: %v", err)
	}
	if got := p.Scorer().Score(genome).Len(); got != 10 {
		t.Fatalf("expected 10 results, got %d", got)
	}
	if len(p.Cases()) != 10 || p.MaxTotal() != 0 {
		t.Fatalf("unexpected problem shape")
	}
	if _, err := NewMedianProblem(MedianOptions{Cases: 0, GenomeLength: 5}, rng); err == nil {
		t.Fatal("expected zero cases to fail")
	}
	if _, err := NewMedianProblem(MedianOptions{Cases: 3, GenomeLength: 50, MaxStackSize: 10}, rng); err == nil {
		t.Fatal("expected genome longer than stack to fail")
	}
}

func TestMedianHoldoutScorerUsesFreshCases(t *testing.T) {
	p, err := NewMedianProblem(MedianOptions{Cases: 5, GenomeLength: 10, Penalty: 50}, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("new median problem: %v", err)
	}
	holdout, ok := p.HoldoutScorer(12, rand.New(rand.NewPCG(7, 8))).(MedianScorer)
	if !ok {
		t.Fatal("expected a median scorer")
	}
	if len(holdout.Cases) != 12 {
		t.Fatalf("expected 12 holdout cases, got %d", len(holdout.Cases))
	}
	if holdout.Penalty != 50 {
		t.Fatalf("expected training penalty, got %d", holdout.Penalty)
	}
	if len(p.Cases()) != 5 {
		t.Fatalf("training cases changed: %d", len(p.Cases()))
	}
	if results := holdout.Score(push.ParsePlushy(medianProgram)); results.Len() != 12 || results.Total() != 0 {
		t.Fatalf("expected a perfect holdout score, got %v", results)
	}
}
