package evo

import (
	"errors"
	"fmt"
)

var ErrSelectorNotFound = errors.New("selector not found")

// SelectorOptions carries the parameters of the named selectors.
type SelectorOptions struct {
	TournamentSize int
}

var selectorNames = []string{"best", "lexicase", "random", "tournament"}

// ListSelectors returns the names accepted by SelectorByName, sorted.
func ListSelectors() []string {
	return append([]string(nil), selectorNames...)
}

// SelectorByName builds a selector from its configuration name.
func SelectorByName[G any](name string, opts SelectorOptions) (Selector[G], error) {
	switch name {
	case "best":
		return BestSelector[G]{}, nil
	case "random":
		return RandomSelector[G]{}, nil
	case "", "tournament":
		if opts.TournamentSize < 0 {
			return nil, fmt.Errorf("tournament size must be >= 0: %d", opts.TournamentSize)
		}
		return TournamentSelector[G]{Size: opts.TournamentSize}, nil
	case "lexicase":
		return LexicaseSelector[G]{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrSelectorNotFound, name)
	}
}
