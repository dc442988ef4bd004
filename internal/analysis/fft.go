package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var ErrShortSignal = errors.New("analysis: signal too short for spectral estimate")

// PowerSpectrum returns |X_k| for k in [0, n/2) of the Hann-windowed,
// mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	w := window.Hann(n)
	x := make([]float64, n)
	for i, v := range data {
		x[i] = (v - mean) * w[i]
	}

	spec := fft.FFTReal(x)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the angular frequency of the strongest spectral
// component of samples spaced dt apart, refined by parabolic interpolation
// around the peak bin.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 8 || !(dt > 0) {
		return 0, ErrShortSignal
	}

	ps := PowerSpectrum(data)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	bin := float64(peak)
	if peak > 0 && peak < len(ps)-1 {
		a, b, c := math.Log(ps[peak-1]+1e-300), math.Log(ps[peak]+1e-300), math.Log(ps[peak+1]+1e-300)
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}

	return 2 * math.Pi * bin / (float64(len(data)) * dt), nil
}
