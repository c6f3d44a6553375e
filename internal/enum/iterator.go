// Package enum provides a pull-based lazy sequence abstraction and the
// generic operations built on top of it. Any container can participate by
// implementing Iterable; the operations in this package never inspect
// concrete container types.
package enum

import (
	"errors"
	"fmt"
	"sort"
)

// Step is one state of a lazy traversal: either a cons cell holding the
// current value plus a resumption thunk, or the stop sentinel marking
// exhaustion. A non-stop Step always carries a non-nil Resume, even for the
// last element (its thunk returns the stop sentinel).
type Step struct {
	Value  any
	Resume func() Step
}

// Stop returns the exhaustion sentinel.
func Stop() Step {
	return Step{}
}

// Stopped reports whether s marks exhaustion.
func (s Step) Stopped() bool {
	return s.Resume == nil
}

// Iterable is implemented by containers that can be traversed lazily. The
// returned Step must be computed without materializing the rest of the
// container; each resumption thunk closes over an immutable snapshot of the
// remaining elements. Iterate is cheap and idempotent; a fresh traversal
// requests a fresh Step.
type Iterable interface {
	Iterate() Step
}

// ErrNotIterable is returned by FromValue for values whose type has no
// iterator implementation.
var ErrNotIterable = errors.New("not iterable")

// FromValue adapts a dynamic value to an Iterable. Values already
// implementing Iterable pass through; plain slices and maps are wrapped.
// Anything else fails with ErrNotIterable.
func FromValue(v any) (Iterable, error) {
	switch c := v.(type) {
	case Iterable:
		return c, nil
	case []any:
		return List(c), nil
	case []string:
		return Strings(c), nil
	case map[string]any:
		return SortedPairs(c), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotIterable, v)
	}
}

// List is an ordered sequence of values.
type List []any

// Iterate implements Iterable.
func (l List) Iterate() Step {
	if len(l) == 0 {
		return Stop()
	}
	return Step{Value: l[0], Resume: func() Step { return l[1:].Iterate() }}
}

// Strings wraps a string slice as an Iterable without copying.
type Strings []string

// Iterate implements Iterable.
func (s Strings) Iterate() Step {
	if len(s) == 0 {
		return Stop()
	}
	return Step{Value: s[0], Resume: func() Step { return s[1:].Iterate() }}
}

// Range is the inclusive integer range First..Last. First greater than Last
// yields the empty sequence.
type Range struct {
	First, Last int
}

// Iterate implements Iterable.
func (r Range) Iterate() Step {
	if r.First > r.Last {
		return Stop()
	}
	return Step{
		Value:  r.First,
		Resume: func() Step { return Range{First: r.First + 1, Last: r.Last}.Iterate() },
	}
}

// Pair is a single key/value entry of a map container.
type Pair struct {
	Key   string
	Value any
}

// Pairs is an ordered sequence of map entries.
type Pairs []Pair

// Iterate implements Iterable.
func (p Pairs) Iterate() Step {
	if len(p) == 0 {
		return Stop()
	}
	return Step{Value: p[0], Resume: func() Step { return p[1:].Iterate() }}
}

// SortedPairs snapshots a map as Pairs in ascending key order, giving maps a
// deterministic traversal order.
func SortedPairs(m map[string]any) Pairs {
	pairs := make(Pairs, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}
