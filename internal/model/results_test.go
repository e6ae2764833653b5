package model

import "testing"

func TestNewTestResultsSumsValues(t *testing.T) {
	values := []int64{3, -1, 7}
	results := NewTestResults(values)
	if results.Total() != 9 {
		t.Fatalf("expected total 9, got %d", results.Total())
	}
	values[0] = 100
	if results.At(0) != 3 {
		t.Fatalf("expected results to own a copy of the values, got %d", results.At(0))
	}
	if results.Len() != 3 {
		t.Fatalf("expected 3 results, got %d", results.Len())
	}
}

func TestTestResultsValuesIsACopy(t *testing.T) {
	results := NewTestResults([]int64{1, 2})
	values := results.Values()
	values[1] = 50
	if results.At(1) != 2 || results.Total() != 3 {
		t.Fatalf("mutating Values leaked into results: %v", results)
	}
}

func TestCompareOrdersByTotal(t *testing.T) {
	low := NewTestResults([]int64{5, 5})
	high := NewTestResults([]int64{0, 11})
	same := NewTestResults([]int64{10})

	if Compare(low, high) >= 0 {
		t.Fatal("expected low < high")
	}
	if Compare(high, low) <= 0 {
		t.Fatal("expected high > low")
	}
	if Compare(low, same) != 0 {
		t.Fatal("expected equal totals to compare equal")
	}
}

func TestTestResultsString(t *testing.T) {
	got := NewTestResults([]int64{1, 0, 2}).String()
	if got != "[1 0 2] (3)" {
		t.Fatalf("unexpected string: %q", got)
	}
}
