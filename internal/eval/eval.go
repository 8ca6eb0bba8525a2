// Package eval scores a search algorithm against a mock data challenge:
// it classifies candidate events against known injections, builds empirical
// false-alarm-rate curves and estimates the sensitive volume by Monte
// Carlo. Everything operates on fully materialized in-memory arrays; the
// package performs no I/O and keeps no state between runs.
package eval

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"mdceval/internal/model"
)

var ErrShape = errors.New("eval: parallel arrays differ in length")

func validateEvents(e model.EventSet) error {
	if len(e.Stat) != len(e.Time) || len(e.Tolerance) != len(e.Time) {
		return fmt.Errorf("%w: time=%d stat=%d var=%d",
			ErrShape, len(e.Time), len(e.Stat), len(e.Tolerance))
	}
	return nil
}

func validateInjections(s model.InjectionSet) error {
	n := s.Len()
	if len(s.Distance) != n || len(s.Mass1) != n || len(s.Mass2) != n {
		return fmt.Errorf("%w: tc=%d distance=%d mass1=%d mass2=%d",
			ErrShape, n, len(s.Distance), len(s.Mass1), len(s.Mass2))
	}
	if s.ChirpDistance != nil && len(s.ChirpDistance) != n {
		return fmt.Errorf("%w: tc=%d chirp_distance=%d", ErrShape, n, len(s.ChirpDistance))
	}
	return nil
}

// sortByTime returns a copy of the event set ordered by ascending time,
// plus the permutation that was applied.
func sortByTime(e model.EventSet) (model.EventSet, []int) {
	order := make([]int, e.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return e.Time[order[a]] < e.Time[order[b]] })
	out := model.EventSet{
		Time:      make([]float64, e.Len()),
		Stat:      make([]float64, e.Len()),
		Tolerance: make([]float64, e.Len()),
	}
	for i, j := range order {
		out.Time[i] = e.Time[j]
		out.Stat[i] = e.Stat[j]
		out.Tolerance[i] = e.Tolerance[j]
	}
	return out, order
}

// Evaluate runs the full pipeline: classify the foreground events against
// the injection times, build the foreground and background FAR curves,
// reduce true positives to the best statistic per injection and sweep the
// sensitivity estimate over the background statistics. The injection set
// must already be reduced to the contained injections (SelectContained)
// and duration must be the one reported by FilterInjections; a
// non-positive duration falls back to the injection time span. The
// foreground FAR is estimated from the false-positive statistics only and
// is diagnostic; the background curve is the operational one.
func Evaluate(fg, bg model.EventSet, injs model.InjectionSet, duration float64, chirpWeighted bool) (*model.Results, error) {
	if err := validateEvents(fg); err != nil {
		return nil, fmt.Errorf("foreground events: %w", err)
	}
	if err := validateEvents(bg); err != nil {
		return nil, fmt.Errorf("background events: %w", err)
	}
	if err := validateInjections(injs); err != nil {
		return nil, fmt.Errorf("injections: %w", err)
	}
	if injs.Len() == 0 {
		return nil, ErrNoInjections
	}
	if duration <= 0 {
		duration = floats.Max(injs.Tc) - floats.Min(injs.Tc)
	}

	fgSorted, sortIdx := sortByTime(fg)
	cl, err := Classify(fgSorted, injs.Tc)
	if err != nil {
		return nil, err
	}

	var tpIdx, fpIdx []int
	var fpStats []float64
	for i, tp := range cl.TruePositive {
		if tp {
			tpIdx = append(tpIdx, i)
		} else {
			fpIdx = append(fpIdx, i)
			fpStats = append(fpStats, fgSorted.Stat[i])
		}
	}

	fgFARStats, fgFAR := FARCurve(fpStats, duration)
	farStats, far := FARCurve(bg.Stat, duration)

	found := BestPerInjection(fgSorted, cl)

	var w Weighting = UniformWeighting{}
	if chirpWeighted {
		w = ChirpWeighting{}
	}
	curve, err := Sensitivity(found, farStats, injs, w)
	if err != nil {
		return nil, err
	}

	matched := make(map[int]bool, len(cl.Matched))
	for _, m := range cl.Matched {
		matched[m] = true
	}
	var missed []int
	for i := 0; i < injs.Len(); i++ {
		if !matched[i] {
			missed = append(missed, i)
		}
	}

	return &model.Results{
		Duration:                  duration,
		FgFARStats:                fgFARStats,
		FgFAR:                     fgFAR,
		FARStats:                  farStats,
		FAR:                       far,
		Sensitivity:               curve,
		SortingIndices:            sortIdx,
		FoundIndices:              append([]int(nil), cl.Matched...),
		MissedIndices:             missed,
		TruePositiveEventIndices:  tpIdx,
		FalsePositiveEventIndices: fpIdx,
		NInjections:               injs.Len(),
		NFound:                    len(found),
		ChirpMode:                 chirpWeighted,
	}, nil
}
