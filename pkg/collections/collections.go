// Package collections holds small generic slice helpers.
package collections

import "cmp"

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

// Index returns the position of v in items, or -1.
func Index[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

// Wrap maps i onto [0, n) cyclically; negative i wraps from the end.
// Wrap returns 0 when n is not positive.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// MinMax returns the smallest and largest item. ok is false for an empty
// slice.
func MinMax[T cmp.Ordered](items []T) (lo, hi T, ok bool) {
	if len(items) == 0 {
		return lo, hi, false
	}

	lo, hi = items[0], items[0]
	for _, item := range items[1:] {
		lo = min(lo, item)
		hi = max(hi, item)
	}
	return lo, hi, true
}
