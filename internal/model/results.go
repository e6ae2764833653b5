package model

import (
	"fmt"
	"strings"
)

// TestResults is the per-case result vector of one genome together with its
// total. The total is derived from the values when the vector is built and
// cannot be set independently.
type TestResults struct {
	values []int64
	total  int64
}

// NewTestResults copies values and sums them. The sum is plain int64
// arithmetic; callers with large per-case values own overflow.
func NewTestResults(values []int64) TestResults {
	copied := make([]int64, len(values))
	copy(copied, values)
	return TestResults{values: copied, total: sum(copied)}
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func (r TestResults) Total() int64 {
	return r.total
}

func (r TestResults) Len() int {
	return len(r.values)
}

func (r TestResults) At(i int) int64 {
	return r.values[i]
}

// Values returns a copy of the per-case results.
func (r TestResults) Values() []int64 {
	copied := make([]int64, len(r.values))
	copy(copied, r.values)
	return copied
}

func (r TestResults) String() string {
	parts := make([]string, len(r.values))
	for i, v := range r.values {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("[%s] (%d)", strings.Join(parts, " "), r.total)
}

// Compare orders two result vectors by their totals.
func Compare(a, b TestResults) int {
	switch {
	case a.total < b.total:
		return -1
	case a.total > b.total:
		return 1
	default:
		return 0
	}
}
