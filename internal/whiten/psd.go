package whiten

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

var ErrShortStrain = errors.New("whiten: strain shorter than one spectrum segment")

// Welch estimates the one-sided power spectral density of the strain from
// Hann-windowed segments with 50% overlap. It returns the PSD and its
// frequency resolution.
func Welch(strain []float64, deltaT, segmentDuration float64) ([]float64, float64, error) {
	if deltaT <= 0 {
		return nil, 0, fmt.Errorf("whiten: delta_t must be positive, got %v", deltaT)
	}
	segLen := int(math.Round(segmentDuration / deltaT))
	if segLen < 2 {
		return nil, 0, fmt.Errorf("whiten: segment duration %v too short for delta_t %v", segmentDuration, deltaT)
	}
	if segLen > len(strain) {
		return nil, 0, fmt.Errorf("%w: %d samples, segment needs %d", ErrShortStrain, len(strain), segLen)
	}

	win := make([]float64, segLen)
	for i := range win {
		win[i] = 1
	}
	window.Hann(win)
	winPower := 0.0
	for _, w := range win {
		winPower += w * w
	}

	fft := fourier.NewFFT(segLen)
	nBins := segLen/2 + 1
	psd := make([]float64, nBins)
	seg := make([]float64, segLen)
	coeffs := make([]complex128, nBins)
	step := segLen / 2
	nSegs := 0
	for start := 0; start+segLen <= len(strain); start += step {
		for i := range seg {
			seg[i] = strain[start+i] * win[i]
		}
		fft.Coefficients(coeffs, seg)
		for k, c := range coeffs {
			p := real(c)*real(c) + imag(c)*imag(c)
			// One-sided normalization; DC and Nyquist carry no mirror.
			scale := 2 * deltaT / winPower
			if k == 0 || k == nBins-1 {
				scale /= 2
			}
			psd[k] += p * scale
		}
		nSegs++
	}
	for k := range psd {
		psd[k] /= float64(nSegs)
	}
	deltaF := 1 / (float64(segLen) * deltaT)
	return psd, deltaF, nil
}

// TruncateInverseSpectrum limits the time-domain extent of the whitening
// filter implied by the PSD to maxFilterLen samples, tapering the kept
// wings with a Hann window, and returns the corresponding smoothed PSD.
// Bins below the low-frequency cutoff are excluded from the filter and
// come back as +Inf, so their inverse weight is zero.
func TruncateInverseSpectrum(psd []float64, deltaF float64, maxFilterLen int, lowFrequencyCutoff float64) []float64 {
	nBins := len(psd)
	n := 2 * (nBins - 1)
	if maxFilterLen > n {
		maxFilterLen = n
	}

	invASD := make([]complex128, nBins)
	for k, p := range psd {
		freq := float64(k) * deltaF
		if p > 0 && freq >= lowFrequencyCutoff {
			invASD[k] = complex(1/math.Sqrt(p), 0)
		}
	}

	fft := fourier.NewFFT(n)
	q := fft.Sequence(nil, invASD)
	for i := range q {
		q[i] /= float64(n)
	}

	// Keep the filter wings around zero lag, Hann-tapered towards the
	// middle, and zero the rest.
	half := maxFilterLen / 2
	taper := make([]float64, maxFilterLen)
	for i := range taper {
		taper[i] = 1
	}
	window.Hann(taper)
	for i := 0; i < half; i++ {
		q[i] *= taper[half+i]
		q[n-half+i] *= taper[i]
	}
	for i := half; i < n-half; i++ {
		q[i] = 0
	}

	trunc := fft.Coefficients(nil, q)
	out := make([]float64, nBins)
	for k, c := range trunc {
		m := real(c)*real(c) + imag(c)*imag(c)
		if m == 0 {
			out[k] = math.Inf(1)
			continue
		}
		out[k] = 1 / m
	}
	return out
}
