package eval

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mdceval/internal/model"
)

// The reference scenario: one 100 s segment with 10 s padding on both
// sides, injections at 5, 50 and 95 of which only the middle one is
// contained, one true-positive foreground event and one background event.
func TestEvaluateScenario(t *testing.T) {
	segs := []model.Segment{{StartTime: 0, DeltaT: 1, Length: 100}}
	injs := model.InjectionSet{
		Tc:       []float64{5, 50, 95},
		Distance: []float64{400, 500, 600},
		Mass1:    []float64{30, 35, 40},
		Mass2:    []float64{29, 34, 39},
	}
	duration, mask, err := FilterInjections(segs, injs.Tc, Padding{Start: 10, End: 10})
	if err != nil {
		t.Fatalf("filter injections: %v", err)
	}
	if duration != 100 {
		t.Fatalf("duration = %v, want 100", duration)
	}
	contained, err := SelectContained(injs, mask)
	if err != nil {
		t.Fatalf("select contained: %v", err)
	}
	if contained.Len() != 1 || contained.Tc[0] != 50 {
		t.Fatalf("contained = %+v", contained)
	}

	fg := model.EventSet{Time: []float64{50.1}, Stat: []float64{8}, Tolerance: []float64{1}}
	bg := model.EventSet{Time: []float64{12.3}, Stat: []float64{5}, Tolerance: []float64{1}}
	res, err := Evaluate(fg, bg, contained, duration, false)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(res.TruePositiveEventIndices) != 1 || res.TruePositiveEventIndices[0] != 0 {
		t.Fatalf("true positives = %v", res.TruePositiveEventIndices)
	}
	if len(res.FalsePositiveEventIndices) != 0 {
		t.Fatalf("false positives = %v", res.FalsePositiveEventIndices)
	}
	if len(res.FgFAR) != 0 {
		t.Fatalf("fg FAR over zero false positives must be empty, got %v", res.FgFAR)
	}
	if len(res.FAR) != 1 || res.FARStats[0] != 5 || res.FAR[0] != 0 {
		t.Fatalf("bg FAR = %v at %v", res.FAR, res.FARStats)
	}
	if res.NFound != 1 || res.NInjections != 1 {
		t.Fatalf("found %d of %d", res.NFound, res.NInjections)
	}
	if len(res.MissedIndices) != 0 {
		t.Fatalf("missed = %v", res.MissedIndices)
	}

	// One found injection above the single threshold: the full sphere of
	// the maximum contained distance, with zero Monte-Carlo error.
	vTot := 4.0 / 3.0 * math.Pi * math.Pow(500, 3)
	if math.Abs(res.Sensitivity.Volume[0]-vTot) > 1e-6*vTot {
		t.Fatalf("volume = %v, want %v", res.Sensitivity.Volume[0], vTot)
	}
	if math.Abs(res.Sensitivity.Distance[0]-500) > 1e-9 {
		t.Fatalf("distance = %v, want 500", res.Sensitivity.Distance[0])
	}
	if res.Sensitivity.Fraction[0] != 1 {
		t.Fatalf("fraction = %v, want 1", res.Sensitivity.Fraction[0])
	}
	if res.Sensitivity.VolumeError[0] != 0 {
		t.Fatalf("volume error = %v, want 0", res.Sensitivity.VolumeError[0])
	}
}

func TestEvaluateSortsForegroundByTime(t *testing.T) {
	injs := model.InjectionSet{
		Tc:       []float64{10, 20},
		Distance: []float64{100, 200},
		Mass1:    []float64{10, 10},
		Mass2:    []float64{10, 10},
	}
	fg := model.EventSet{
		Time:      []float64{20.2, 9.9},
		Stat:      []float64{3, 7},
		Tolerance: []float64{1, 1},
	}
	bg := model.EventSet{Time: []float64{1}, Stat: []float64{1}, Tolerance: []float64{1}}
	res, err := Evaluate(fg, bg, injs, 100, false)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if diff := cmp.Diff([]int{1, 0}, res.SortingIndices); diff != "" {
		t.Fatalf("sorting indices (-want +got):\n%s", diff)
	}
	// After sorting, event 0 is the one at 9.9 matching injection 0.
	if diff := cmp.Diff([]int{0, 1}, res.FoundIndices); diff != "" {
		t.Fatalf("found indices (-want +got):\n%s", diff)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	injs := model.InjectionSet{
		Tc:       []float64{10, 40, 70},
		Distance: []float64{120, 90, 300},
		Mass1:    []float64{12, 25, 31},
		Mass2:    []float64{11, 20, 28},
	}
	fg := model.EventSet{
		Time:      []float64{10.2, 39.5, 70.1, 55},
		Stat:      []float64{6, 4, 9, 2},
		Tolerance: []float64{0.5, 1, 0.5, 1},
	}
	bg := model.EventSet{
		Time:      []float64{3, 17, 66},
		Stat:      []float64{1.5, 3.5, 5.5},
		Tolerance: []float64{1, 1, 1},
	}
	first, err := Evaluate(fg, bg, injs, 90, false)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := Evaluate(fg, bg, injs, 90, false)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("evaluate is not deterministic (-first +second):\n%s", diff)
	}
}

func TestEvaluateShapeErrors(t *testing.T) {
	injs := model.InjectionSet{Tc: []float64{1}, Distance: []float64{1}, Mass1: []float64{1}, Mass2: []float64{1}}
	good := model.EventSet{Time: []float64{1}, Stat: []float64{1}, Tolerance: []float64{1}}
	bad := model.EventSet{Time: []float64{1, 2}, Stat: []float64{1}, Tolerance: []float64{1, 2}}
	if _, err := Evaluate(bad, good, injs, 10, false); err == nil {
		t.Fatalf("mismatched foreground arrays must fail")
	}
	if _, err := Evaluate(good, bad, injs, 10, false); err == nil {
		t.Fatalf("mismatched background arrays must fail")
	}
	badInj := model.InjectionSet{Tc: []float64{1, 2}, Distance: []float64{1}, Mass1: []float64{1, 2}, Mass2: []float64{1, 2}}
	if _, err := Evaluate(good, good, badInj, 10, false); err == nil {
		t.Fatalf("mismatched injection arrays must fail")
	}
}
