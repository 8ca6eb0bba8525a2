package eval

import (
	"math"
	"testing"

	"mdceval/internal/model"
)

func TestChirpMass(t *testing.T) {
	// Equal component masses m give m / 2^(1/5).
	want := 10 / math.Pow(2, 0.2)
	if got := ChirpMass(10, 10); math.Abs(got-want) > 1e-9 {
		t.Fatalf("ChirpMass(10,10) = %v, want %v", got, want)
	}
	if got := ChirpMass(1.4, 1.4); math.Abs(got-1.2187869) > 1e-6 {
		t.Fatalf("ChirpMass(1.4,1.4) = %v", got)
	}
}

func TestSensitivityUniform(t *testing.T) {
	injs := model.InjectionSet{
		Tc:       []float64{1, 2, 3, 4},
		Distance: []float64{60, 100, 80, 90},
		Mass1:    []float64{10, 10, 10, 10},
		Mass2:    []float64{10, 10, 10, 10},
	}
	found := []model.FoundInjection{{Index: 0, Stat: 10}, {Index: 1, Stat: 20}, {Index: 2, Stat: 30}}
	thresholds := []float64{5, 15, 25, 35}
	curve, err := Sensitivity(found, thresholds, injs, UniformWeighting{})
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	vTot := 4.0 / 3.0 * math.Pi * 1e6
	wantFrac := []float64{0.75, 0.5, 0.25, 0}
	for i, p := range wantFrac {
		if math.Abs(curve.Fraction[i]-p) > 1e-12 {
			t.Fatalf("fraction[%d] = %v, want %v", i, curve.Fraction[i], p)
		}
		if math.Abs(curve.Volume[i]-vTot*p) > 1e-6*vTot {
			t.Fatalf("volume[%d] = %v, want %v", i, curve.Volume[i], vTot*p)
		}
		wantErr := vTot / 4 * math.Sqrt(4*(p-p*p))
		if math.Abs(curve.VolumeError[i]-wantErr) > 1e-6*vTot {
			t.Fatalf("volume error[%d] = %v, want %v", i, curve.VolumeError[i], wantErr)
		}
		wantDist := 100 * math.Cbrt(p)
		if math.Abs(curve.Distance[i]-wantDist) > 1e-9 {
			t.Fatalf("distance[%d] = %v, want %v", i, curve.Distance[i], wantDist)
		}
	}
}

func TestSensitivityBounds(t *testing.T) {
	injs := model.InjectionSet{
		Tc:       []float64{1, 2, 3, 4, 5},
		Distance: []float64{10, 20, 30, 40, 50},
		Mass1:    []float64{5, 10, 15, 20, 25},
		Mass2:    []float64{6, 11, 16, 21, 26},
	}
	found := []model.FoundInjection{{Index: 1, Stat: 3}, {Index: 3, Stat: 8}, {Index: 4, Stat: 8}}
	thresholds := []float64{0, 2, 4, 6, 8, 10}
	for _, w := range []Weighting{UniformWeighting{}, ChirpWeighting{}} {
		curve, err := Sensitivity(found, thresholds, injs, w)
		if err != nil {
			t.Fatalf("sensitivity: %v", err)
		}
		for i := range thresholds {
			if curve.Fraction[i] < 0 || curve.Fraction[i] > 1 {
				t.Fatalf("fraction[%d] = %v out of [0,1]", i, curve.Fraction[i])
			}
			if i > 0 && curve.Fraction[i] > curve.Fraction[i-1] {
				t.Fatalf("fraction must be non-increasing in the threshold")
			}
			if curve.VolumeError[i] < 0 {
				t.Fatalf("volume error[%d] = %v < 0", i, curve.VolumeError[i])
			}
		}
	}
}

func TestSensitivityChirpEqualMassesMatchesUniform(t *testing.T) {
	// With identical masses everywhere the chirp weights are constant and
	// the weighted estimate must collapse onto the uniform one.
	injs := model.InjectionSet{
		Tc:       []float64{1, 2, 3},
		Distance: []float64{50, 150, 100},
		Mass1:    []float64{30, 30, 30},
		Mass2:    []float64{30, 30, 30},
	}
	found := []model.FoundInjection{{Index: 0, Stat: 4}, {Index: 2, Stat: 9}}
	thresholds := []float64{1, 6, 12}
	uni, err := Sensitivity(found, thresholds, injs, UniformWeighting{})
	if err != nil {
		t.Fatalf("uniform: %v", err)
	}
	chirp, err := Sensitivity(found, thresholds, injs, ChirpWeighting{})
	if err != nil {
		t.Fatalf("chirp: %v", err)
	}
	for i := range thresholds {
		if math.Abs(uni.Volume[i]-chirp.Volume[i]) > 1e-9*uni.Volume[0] {
			t.Fatalf("volume[%d]: uniform %v, chirp %v", i, uni.Volume[i], chirp.Volume[i])
		}
		if math.Abs(uni.VolumeError[i]-chirp.VolumeError[i]) > 1e-9*uni.Volume[0] {
			t.Fatalf("volume error[%d]: uniform %v, chirp %v", i, uni.VolumeError[i], chirp.VolumeError[i])
		}
		if math.Abs(uni.Fraction[i]-chirp.Fraction[i]) > 1e-12 {
			t.Fatalf("fraction[%d]: uniform %v, chirp %v", i, uni.Fraction[i], chirp.Fraction[i])
		}
	}
}

func TestSensitivityChirpWeighted(t *testing.T) {
	// Two injections with equal-component masses 10 and 20, so the weight
	// ratio is exactly 2^(5/2). Both found, swept below both statistics.
	injs := model.InjectionSet{
		Tc:       []float64{1, 2},
		Distance: []float64{1, 1},
		Mass1:    []float64{10, 20},
		Mass2:    []float64{10, 20},
	}
	found := []model.FoundInjection{{Index: 0, Stat: 1}, {Index: 1, Stat: 2}}
	curve, err := Sensitivity(found, []float64{0}, injs, ChirpWeighting{})
	if err != nil {
		t.Fatalf("sensitivity: %v", err)
	}
	vTot := 4.0 / 3.0 * math.Pi
	r := math.Pow(2, -2.5) // w0/w1
	nEff := 1/r + 1
	wantVol := vTot * (1 + r) / 2
	wantFrac := 2 / nEff
	variance := (r*r+1)/nEff - math.Pow((r+1)/nEff, 2)
	wantErr := vTot / 2 * math.Sqrt(nEff*variance)
	if math.Abs(curve.Volume[0]-wantVol) > 1e-9 {
		t.Fatalf("volume = %v, want %v", curve.Volume[0], wantVol)
	}
	if math.Abs(curve.Fraction[0]-wantFrac) > 1e-12 {
		t.Fatalf("fraction = %v, want %v", curve.Fraction[0], wantFrac)
	}
	if math.Abs(curve.VolumeError[0]-wantErr) > 1e-9 {
		t.Fatalf("volume error = %v, want %v", curve.VolumeError[0], wantErr)
	}
}
