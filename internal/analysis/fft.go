package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum removes the mean, zero-pads to a power of two and returns
// the magnitude of the first half of the transform.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in hertz of the strongest non-zero
// bin of data sampled every dt seconds. ok is false for flat or short series.
func DominantFrequency(data []float64, dt float64) (freq float64, ok bool) {
	if dt <= 0 || len(data) < 4 {
		return 0, false
	}
	ps := PowerSpectrum(data)

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, false
	}
	n := len(ps) * 2
	return float64(maxIdx) / (float64(n) * dt), true
}
