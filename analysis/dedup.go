package analysis

import (
	"math"
	"sort"
)

// Dedup keeps, in discovery order, every value that has no already accepted
// value within eps, then sorts the survivors ascending. Running it on its own
// output returns the same slice contents.
func Dedup(values []float64, eps float64) []float64 {
	return DedupFunc(values, eps, func(v float64) float64 { return v })
}

// DedupFunc is Dedup over arbitrary items keyed by a location. Which of two
// near-duplicates survives depends only on input order: the earlier one wins.
func DedupFunc[T any](items []T, eps float64, key func(T) float64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if math.IsNaN(k) || math.IsInf(k, 0) {
			continue
		}
		dup := false
		for _, kept := range out {
			if math.Abs(key(kept)-k) <= eps {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}
