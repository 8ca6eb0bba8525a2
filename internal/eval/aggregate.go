package eval

import (
	"sort"

	"mdceval/internal/model"
)

// BestPerInjection groups the foreground events by their matched injection
// and keeps, for every injection with at least one true-positive match, the
// maximum statistic among its true positives. Injections matched only by
// false positives are not found. The grouping sorts the match indices once
// and walks equal-index runs, so duplicate matches stay cheap even for
// large event counts. Records come back ordered by injection index.
func BestPerInjection(events model.EventSet, cl model.Classification) []model.FoundInjection {
	n := len(cl.Matched)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cl.Matched[order[a]] < cl.Matched[order[b]]
	})

	found := make([]model.FoundInjection, 0)
	for lo := 0; lo < n; {
		inj := cl.Matched[order[lo]]
		// Upper bound of the run of events matched to this injection.
		hi := lo + sort.Search(n-lo, func(k int) bool {
			return cl.Matched[order[lo+k]] > inj
		})
		best := 0.0
		any := false
		for _, j := range order[lo:hi] {
			if !cl.TruePositive[j] {
				continue
			}
			if !any || events.Stat[j] > best {
				best = events.Stat[j]
				any = true
			}
		}
		if any {
			found = append(found, model.FoundInjection{Index: inj, Stat: best})
		}
		lo = hi
	}
	return found
}
