package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms a real series of any length.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fft.FFTReal(data)
}

// PowerSpectrum returns |X_k| for the lower half of the transform.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// Frequencies gives the bin frequencies of PowerSpectrum for n input samples
// taken spacing seconds apart.
func Frequencies(n int, spacing float64) []float64 {
	out := make([]float64, n/2)
	for i := range out {
		out[i] = float64(i) / (float64(n) * spacing)
	}
	return out
}

// DominantFrequency returns the frequency and magnitude of the largest
// non-DC bin. Series shorter than four samples report zero.
func DominantFrequency(data []float64, spacing float64) (float64, float64) {
	if len(data) < 4 || spacing <= 0 {
		return 0, 0
	}
	ps := PowerSpectrum(data)
	freqs := Frequencies(len(data), spacing)

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return freqs[best], ps[best]
}
