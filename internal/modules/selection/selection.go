// Package selection provides order-statistic selection over unsorted values.
package selection

import (
	"cmp"
	"math/rand/v2"
)

// KthLargest returns the k-th largest element of values, with k=1 being the maximum.
// Equal values occupy distinct ranks. Empty input or k outside [1, len(values)]
// yields the zero value. The input slice is not modified.
//
// Quickselect with a random pivot: expected linear time.
func KthLargest[T cmp.Ordered](values []T, k int) T {
	var zero T
	if len(values) == 0 || k < 1 || k > len(values) {
		return zero
	}

	work := make([]T, len(values))
	copy(work, values)

	target := k - 1
	lo, hi := 0, len(work)-1
	for lo < hi {
		p := partitionDesc(work, lo, hi, lo+rand.IntN(hi-lo+1))
		switch {
		case p == target:
			return work[p]
		case p > target:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return work[lo]
}

// partitionDesc places the pivot at its final descending position and returns it.
// Elements >= pivot end up on the left.
func partitionDesc[T cmp.Ordered](a []T, lo, hi, pivotIdx int) int {
	pivot := a[pivotIdx]
	a[pivotIdx], a[hi] = a[hi], a[pivotIdx]
	store := lo
	for i := lo; i < hi; i++ {
		if a[i] >= pivot {
			a[store], a[i] = a[i], a[store]
			store++
		}
	}
	a[store], a[hi] = a[hi], a[store]
	return store
}
