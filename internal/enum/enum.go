package enum

import (
	"fmt"
	"strings"
)

// Truthy reports whether v counts as true for predicate defaulting: every
// value is truthy except nil and false.
func Truthy(v any) bool {
	return v != nil && v != false
}

// All reports whether pred holds for every element, short-circuiting on the
// first failure. A nil pred defaults to Truthy. The empty sequence is
// vacuously true.
func All(c Iterable, pred func(any) bool) bool {
	if pred == nil {
		pred = Truthy
	}
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		if !pred(s.Value) {
			return false
		}
	}
	return true
}

// Each invokes fn on every element left to right for its side effects and
// returns the container unchanged, so calls can be chained without losing
// the source value.
func Each(c Iterable, fn func(any)) Iterable {
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		fn(s.Value)
	}
	return c
}

// Foldl is the left fold: the accumulator is threaded through fn strictly in
// traversal order.
func Foldl(c Iterable, acc any, fn func(elem, acc any) any) any {
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		acc = fn(s.Value, acc)
	}
	return acc
}

// Map materializes fn applied to each element, preserving order. The result
// is built iteratively; input length does not grow the stack.
func Map(c Iterable, fn func(any) any) List {
	var out List
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		out = append(out, fn(s.Value))
	}
	return out
}

// Join concatenates the string form of each element separated by joiner.
// The empty sequence yields the empty string; otherwise there is exactly one
// joiner fewer than elements.
func Join(c Iterable, joiner string) string {
	var b strings.Builder
	first := true
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		if !first {
			b.WriteString(joiner)
		}
		first = false
		b.WriteString(stringify(s.Value))
	}
	return b.String()
}

// MapFoldl maps and folds in a single traversal. fn returns the mapped value
// and the new accumulator; the mapped sequence preserves order and the
// accumulator is threaded in traversal order.
func MapFoldl(c Iterable, acc any, fn func(elem, acc any) (any, any)) (List, any) {
	var out List
	for s := c.Iterate(); !s.Stopped(); s = s.Resume() {
		var mapped any
		mapped, acc = fn(s.Value, acc)
		out = append(out, mapped)
	}
	return out, acc
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
