package eval

import "sort"

// FARCurve sorts the statistics ascending and pairs each with the empirical
// rate of statistics at or above it: for rank k of n the rate is
// (n-k-1)/duration. Exactly equal statistics receive distinct ranks in
// sort order.
func FARCurve(stats []float64, duration float64) (sorted, rates []float64) {
	n := len(stats)
	sorted = make([]float64, n)
	copy(sorted, stats)
	sort.Float64s(sorted)
	rates = make([]float64, n)
	for k := range rates {
		rates[k] = float64(n-k-1) / duration
	}
	return sorted, rates
}
