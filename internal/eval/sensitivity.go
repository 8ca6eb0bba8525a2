package eval

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"mdceval/internal/model"
)

// ChirpMass returns (m1*m2)^(3/5) / (m1+m2)^(1/5).
func ChirpMass(mass1, mass2 float64) float64 {
	return math.Pow(mass1*mass2, 3.0/5.0) / math.Pow(mass1+mass2, 1.0/5.0)
}

// Weighting assigns every contained injection a Monte-Carlo weight. The
// uniform and chirp-mass weighted estimates differ only in these weights;
// the threshold sweep is shared.
type Weighting interface {
	Weights(injs model.InjectionSet) ([]float64, error)
}

// UniformWeighting weights every injection equally, for populations drawn
// uniformly in volume.
type UniformWeighting struct{}

func (UniformWeighting) Weights(injs model.InjectionSet) ([]float64, error) {
	w := make([]float64, injs.Len())
	for i := range w {
		w[i] = 1
	}
	return w, nil
}

// ChirpWeighting weights each injection by chirp_mass^(5/2), correcting for
// populations drawn uniformly in chirp distance rather than volume.
type ChirpWeighting struct{}

func (ChirpWeighting) Weights(injs model.InjectionSet) ([]float64, error) {
	if len(injs.Mass1) != injs.Len() || len(injs.Mass2) != injs.Len() {
		return nil, fmt.Errorf("%w: chirp weighting needs mass1/mass2 for every injection", ErrShape)
	}
	w := make([]float64, injs.Len())
	for i := range w {
		w[i] = math.Pow(ChirpMass(injs.Mass1[i], injs.Mass2[i]), 5.0/2.0)
	}
	return w, nil
}

// Sensitivity estimates the sensitive volume, its Monte-Carlo error and the
// equivalent sensitive distance at every threshold. The thresholds are the
// background statistics in ascending order; an injection counts at a
// threshold when its best statistic is strictly above it. The volume is the
// sphere of the maximum injection distance scaled by the weighted found
// fraction; the error follows from the second moment of the weights.
func Sensitivity(found []model.FoundInjection, thresholds []float64, injs model.InjectionSet, w Weighting) (model.Curve, error) {
	weights, err := w.Weights(injs)
	if err != nil {
		return model.Curve{}, err
	}
	nInj := injs.Len()
	if nInj == 0 || len(injs.Distance) != nInj {
		return model.Curve{}, fmt.Errorf("%w: injection set has no usable distances", ErrShape)
	}
	maxDist := floats.Max(injs.Distance)
	vTot := 4.0 / 3.0 * math.Pi * math.Pow(maxDist, 3)
	wMax := floats.Max(weights)
	prefactor := vTot / (wMax * float64(nInj))
	nEff := 0.0
	for _, wi := range weights {
		nEff += wMax / wi
	}

	byStat := make([]model.FoundInjection, len(found))
	copy(byStat, found)
	sort.Slice(byStat, func(a, b int) bool { return byStat[a].Stat < byStat[b].Stat })
	foundStats := make([]float64, len(byStat))
	for i, f := range byStat {
		foundStats[i] = f.Stat
	}
	// Reverse cumulative sums of the found weights and squared weights,
	// indexed by the threshold's insertion point.
	revSum := make([]float64, len(byStat)+1)
	revSumSq := make([]float64, len(byStat)+1)
	for i := len(byStat) - 1; i >= 0; i-- {
		wi := weights[byStat[i].Index]
		revSum[i] = revSum[i+1] + wi
		revSumSq[i] = revSumSq[i+1] + wi*wi
	}

	curve := model.Curve{
		Volume:      make([]float64, len(thresholds)),
		VolumeError: make([]float64, len(thresholds)),
		Distance:    make([]float64, len(thresholds)),
		Fraction:    make([]float64, len(thresholds)),
	}
	for ti, t := range thresholds {
		// First found statistic strictly above the threshold.
		at := sort.Search(len(foundStats), func(i int) bool { return foundStats[i] > t })
		nFound := len(foundStats) - at
		wSum := revSum[at]
		variance := revSumSq[at]/nEff - (wSum/nEff)*(wSum/nEff)
		if variance < 0 {
			variance = 0
		}
		vol := prefactor * wSum
		curve.Volume[ti] = vol
		curve.VolumeError[ti] = prefactor * math.Sqrt(nEff*variance)
		curve.Distance[ti] = math.Cbrt(3 * vol / (4 * math.Pi))
		curve.Fraction[ti] = float64(nFound) / nEff
	}
	return curve, nil
}
