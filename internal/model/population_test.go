package model

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func scoredIndividual(genome []bool, values ...int64) Individual[[]bool] {
	return NewIndividual(genome, NewTestResults(values))
}

func TestGenerateIndividualScoresGenome(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	maker := GenomeMakerFunc[int](func(rng *rand.Rand) int { return rng.IntN(20) })
	scorer := ScorerFunc[int](func(g int) TestResults { return NewTestResults([]int64{int64(g) + 100}) })

	ind := GenerateIndividual[int](maker, scorer, rng)
	if ind.Genome() < 0 || ind.Genome() >= 20 {
		t.Fatalf("genome out of range: %d", ind.Genome())
	}
	if ind.Total() != int64(ind.Genome())+100 {
		t.Fatalf("expected total %d, got %d", ind.Genome()+100, ind.Total())
	}
}

func TestBestReturnsMaximalTotal(t *testing.T) {
	pop := NewPopulation([]Individual[[]bool]{
		scoredIndividual([]bool{false}, 1, 1),
		scoredIndividual([]bool{true}, 4, 4),
		scoredIndividual([]bool{true, true}, 0, 3),
	})

	best := Best(&pop)
	for _, ind := range pop.Individuals() {
		if best.Total() < ind.Total() {
			t.Fatalf("best total %d is below %d", best.Total(), ind.Total())
		}
	}
	if best.Total() != 8 {
		t.Fatalf("expected best total 8, got %d", best.Total())
	}
}

func TestBestPrefersFirstOnTies(t *testing.T) {
	pop := NewPopulation([]Individual[[]bool]{
		scoredIndividual([]bool{false}, 2),
		scoredIndividual([]bool{true}, 2),
	})
	if Best(&pop) != pop.At(0) {
		t.Fatal("expected the first maximal individual")
	}
}

func TestBestPanicsOnEmptyPopulation(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on empty population")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrEmptyPopulation) {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	pop := NewPopulation[[]bool](nil)
	Best(&pop)
}

func TestSortedIsDescendingAndStable(t *testing.T) {
	pop := NewPopulation([]Individual[[]bool]{
		scoredIndividual([]bool{false, false}, 1),
		scoredIndividual([]bool{true, false}, 3),
		scoredIndividual([]bool{false, true}, 1),
	})
	sorted := pop.Sorted()
	if sorted[0].Total() != 3 {
		t.Fatalf("expected best first, got %d", sorted[0].Total())
	}
	if sorted[1].Genome()[0] || sorted[1].Genome()[1] {
		t.Fatalf("expected stable order among ties, got %v", sorted[1].Genome())
	}
	if !sorted[2].Genome()[1] {
		t.Fatalf("expected later tie last, got %v", sorted[2].Genome())
	}
	if pop.At(0).Total() != 1 {
		t.Fatal("Sorted must not reorder the population")
	}
}
