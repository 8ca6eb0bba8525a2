package eval

import (
	"errors"
	"math"
	"sort"
)

var ErrEmptyReference = errors.New("eval: reference array is empty")

// ClosestIndices returns, for every query value, the index into reference
// of the element closest to it. Indices refer to positions in the array as
// given, whether or not it is sorted. On an exact midpoint tie the higher
// position in sorted order wins; queries beyond either end match the
// nearest boundary element.
func ClosestIndices(reference, queries []float64) ([]int, error) {
	if len(reference) == 0 {
		return nil, ErrEmptyReference
	}
	order := make([]int, len(reference))
	for i := range order {
		order[i] = i
	}
	sorted := reference
	if !sort.Float64sAreSorted(reference) {
		sort.SliceStable(order, func(a, b int) bool {
			return reference[order[a]] < reference[order[b]]
		})
		sorted = make([]float64, len(reference))
		for i, j := range order {
			sorted[i] = reference[j]
		}
	}
	n := len(sorted)
	out := make([]int, len(queries))
	for i, v := range queries {
		// Insertion point to the right of any elements equal to v.
		r := sort.Search(n, func(j int) bool { return sorted[j] > v })
		l := r - 1
		if l < 0 {
			l = 0
		}
		c := r
		if c > n-1 {
			c = n - 1
		}
		// The left neighbor wins only when strictly closer, so a midpoint
		// tie falls to the right-hand element.
		if r == n || math.Abs(sorted[l]-v) < math.Abs(sorted[c]-v) {
			r--
		}
		out[i] = order[r]
	}
	return out, nil
}
