// Package scape holds the scoring environments genomes are evolved against.
package scape

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CountOnesName = "count-ones"
	HiffName      = "hiff"
	MedianName    = "median"
)

var ErrUnknownProblem = errors.New("unknown problem")

// Kind tells callers which genome representation a problem evolves.
type Kind int

const (
	KindBitstring Kind = iota
	KindPlushy
)

func (k Kind) String() string {
	switch k {
	case KindBitstring:
		return "bitstring"
	case KindPlushy:
		return "plushy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var problemKinds = map[string]Kind{
	CountOnesName: KindBitstring,
	HiffName:      KindBitstring,
	MedianName:    KindPlushy,
}

// ListProblems returns the registered problem names in a stable order.
func ListProblems() []string {
	return []string{CountOnesName, HiffName, MedianName}
}

// ProblemKind resolves a problem name, accepting any letter case.
func ProblemKind(name string) (string, Kind, error) {
	normalized := strings.TrimSpace(strings.ToLower(name))
	kind, ok := problemKinds[normalized]
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownProblem, name)
	}
	return normalized, kind, nil
}
