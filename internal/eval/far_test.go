package eval

import "testing"

func TestFARCurveRates(t *testing.T) {
	stats := []float64{4, 1, 3, 2}
	sorted, rates := FARCurve(stats, 10)
	wantStats := []float64{1, 2, 3, 4}
	wantRates := []float64{0.3, 0.2, 0.1, 0}
	for i := range wantStats {
		if sorted[i] != wantStats[i] {
			t.Fatalf("sorted[%d] = %v, want %v", i, sorted[i], wantStats[i])
		}
		if rates[i] != wantRates[i] {
			t.Fatalf("rates[%d] = %v, want %v", i, rates[i], wantRates[i])
		}
	}
}

func TestFARCurveMonotone(t *testing.T) {
	stats := []float64{8, 8, 2, 5, 5, 9, 1}
	_, rates := FARCurve(stats, 100)
	for i := 1; i < len(rates); i++ {
		if rates[i] > rates[i-1] {
			t.Fatalf("rates must be non-increasing in the statistic, got %v", rates)
		}
	}
	// The second-largest of N distinct statistics sits one rank below the
	// top, at 1/duration.
	_, distinct := FARCurve([]float64{1, 2, 3}, 100)
	if distinct[1] != 0.01 {
		t.Fatalf("second-largest rate = %v, want 0.01", distinct[1])
	}
	if distinct[len(distinct)-1] != 0 {
		t.Fatalf("largest statistic rate = %v, want 0", distinct[len(distinct)-1])
	}
}

func TestFARCurveEmpty(t *testing.T) {
	sorted, rates := FARCurve(nil, 100)
	if len(sorted) != 0 || len(rates) != 0 {
		t.Fatalf("empty input must yield empty curve")
	}
}
