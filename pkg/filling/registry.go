package filling

import (
	"strings"

	"github.com/matzehuels/rebarplan/pkg/errors"
)

// All is the canonical list of filling strategies, in the order the pipeline
// runs them.
var All = []Strategy{
	Greedy{},
	Balanced{},
}

// Find returns the strategy with the given name from the provided list, or
// nil if not found.
func Find(name string, strategies []Strategy) Strategy {
	for _, s := range strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Lookup returns the built-in strategy with the given name.
func Lookup(name string) (Strategy, error) {
	if s := Find(strings.ToLower(strings.TrimSpace(name)), All); s != nil {
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"unknown filling strategy %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the names of the built-in strategies.
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = s.Name()
	}
	return names
}
