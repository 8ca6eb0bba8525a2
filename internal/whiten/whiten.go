// Package whiten flattens the noise spectrum of detector strain so that
// search algorithms see approximately white noise. It is a standalone
// preparation utility and has no part in the evaluation pipeline.
package whiten

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/interp"
)

type Options struct {
	DeltaT             float64
	SegmentDuration    float64
	MaxFilterDuration  float64
	LowFrequencyCutoff float64
	// PSD, when non-nil, is used instead of estimating the spectrum from
	// the strain itself. PSDDeltaF is its frequency resolution.
	PSD       []float64
	PSDDeltaF float64
	// KeepCorrupted leaves the filter-corrupted edges in the output.
	KeepCorrupted bool
}

// Whiten divides the strain by its amplitude spectral density in the
// frequency domain. The spectrum is estimated with Welch's method unless a
// PSD is supplied, then smoothed by truncating the whitening filter in the
// time domain. Unless KeepCorrupted is set, half a filter length is cut
// from each end of the output.
func Whiten(strain []float64, opts Options) ([]float64, error) {
	n := len(strain)
	if n < 2 {
		return nil, fmt.Errorf("whiten: strain has %d samples", n)
	}
	if opts.DeltaT <= 0 {
		return nil, fmt.Errorf("whiten: delta_t must be positive, got %v", opts.DeltaT)
	}
	deltaF := 1 / (float64(n) * opts.DeltaT)

	psd := opts.PSD
	psdDeltaF := opts.PSDDeltaF
	if psd == nil {
		var err error
		psd, psdDeltaF, err = Welch(strain, opts.DeltaT, opts.SegmentDuration)
		if err != nil {
			return nil, err
		}
	} else if psdDeltaF <= 0 {
		// Resolution implied by the PSD length and an even-length series
		// at the strain's sampling rate.
		psdDeltaF = 1 / (opts.DeltaT * float64(2*len(psd)-2))
	}

	nBins := n/2 + 1
	resampled, err := resamplePSD(psd, psdDeltaF, nBins, deltaF)
	if err != nil {
		return nil, err
	}

	maxFilterLen := int(math.Round(opts.MaxFilterDuration / opts.DeltaT))
	if maxFilterLen < 2 {
		maxFilterLen = 2
	}
	smoothed := TruncateInverseSpectrum(resampled, deltaF, maxFilterLen, opts.LowFrequencyCutoff)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, strain)
	for k := range coeffs {
		w := smoothed[k]
		if math.IsInf(w, 1) {
			coeffs[k] = 0
			continue
		}
		coeffs[k] *= complex(math.Sqrt(1/w), 0)
	}
	white := fft.Sequence(nil, coeffs)
	for i := range white {
		white[i] /= float64(n)
	}

	if opts.KeepCorrupted {
		return white, nil
	}
	kMin := maxFilterLen / 2
	kMax := n - maxFilterLen/2
	if kMin >= kMax {
		return nil, fmt.Errorf("whiten: filter of %d samples corrupts the whole strain", maxFilterLen)
	}
	return white[kMin:kMax], nil
}

// resamplePSD linearly interpolates the PSD onto the target frequency
// grid, clamping at its ends.
func resamplePSD(psd []float64, deltaF float64, nBins int, targetDeltaF float64) ([]float64, error) {
	if len(psd) < 2 {
		return nil, fmt.Errorf("whiten: psd has %d bins", len(psd))
	}
	xs := make([]float64, len(psd))
	for k := range xs {
		xs[k] = float64(k) * deltaF
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, psd); err != nil {
		return nil, fmt.Errorf("whiten: interpolate psd: %w", err)
	}
	out := make([]float64, nBins)
	lo, hi := xs[0], xs[len(xs)-1]
	for k := range out {
		f := float64(k) * targetDeltaF
		if f < lo {
			f = lo
		}
		if f > hi {
			f = hi
		}
		out[k] = pl.Predict(f)
	}
	return out, nil
}
