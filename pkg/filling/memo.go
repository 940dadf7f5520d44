package filling

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/rebarplan/pkg/observability"
)

// DefaultMemoSize is the number of results a Memo keeps per strategy.
const DefaultMemoSize = 1024

// Memo caches the results of a strategy. Strategies are pure, so a result
// computed once for a context is valid for every later identical context.
// Memo is safe for concurrent use.
type Memo struct {
	inner Strategy
	cache *lru.Cache[Context, Result]
}

// NewMemo wraps s with an LRU cache of the given size. A size below one
// selects DefaultMemoSize.
func NewMemo(s Strategy, size int) (*Memo, error) {
	if size < 1 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[Context, Result](size)
	if err != nil {
		return nil, err
	}
	return &Memo{inner: s, cache: cache}, nil
}

// MemoizeAll wraps every strategy in strategies.
func MemoizeAll(strategies []Strategy, size int) ([]Strategy, error) {
	out := make([]Strategy, len(strategies))
	for i, s := range strategies {
		m, err := NewMemo(s, size)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// Name implements Strategy.
func (m *Memo) Name() string { return m.inner.Name() }

// Calculate implements Strategy.
func (m *Memo) Calculate(fc Context) Result {
	if r, ok := m.cache.Get(fc); ok {
		observability.Memo().OnMemoHit(m.inner.Name())
		return r.Clone()
	}
	observability.Memo().OnMemoMiss(m.inner.Name())
	r := m.inner.Calculate(fc)
	m.cache.Add(fc, r.Clone())
	return r
}

// Len returns the number of cached results.
func (m *Memo) Len() int { return m.cache.Len() }

// Purge drops every cached result.
func (m *Memo) Purge() { m.cache.Purge() }
