package harmonics

import (
	"errors"
	"fmt"
	"math"
)

// ErrShortSignal is returned when the signal holds less than one period of
// the fundamental.
var ErrShortSignal = errors.New("harmonics: signal shorter than one period")

// Result holds the harmonic amplitudes of one analysis.
type Result struct {
	Fundamental float64 // rad/s
	// Samples is the analysed block length: the longest prefix spanning a
	// whole number of fundamental periods.
	Samples int
	// Amplitudes[k] is the peak amplitude of harmonic k+1. Harmonics above
	// the Nyquist frequency are omitted.
	Amplitudes []float64
	// THD is sqrt(sum_{k>=2} A_k²) / A_1, or 0 when A_1 is 0.
	THD float64
}

// Analyze measures up to count harmonics of fundamental (rad/s) in signal
// sampled every dt seconds.
func Analyze(signal []float64, dt, fundamental float64, count int) (Result, error) {
	if !(fundamental > 0) || math.IsInf(fundamental, 0) {
		return Result{}, fmt.Errorf("harmonics: fundamental must be > 0: %v", fundamental)
	}
	if count < 1 {
		return Result{}, fmt.Errorf("harmonics: count must be >= 1: %d", count)
	}

	// Validates dt and the fundamental against Nyquist.
	if _, err := NewGoertzel(fundamental, dt); err != nil {
		return Result{}, err
	}

	period := 2 * math.Pi / (fundamental * dt)
	periods := math.Floor(float64(len(signal)) / period)
	if periods < 1 {
		return Result{}, ErrShortSignal
	}
	block := signal[:int(math.Round(periods*period))]

	res := Result{
		Fundamental: fundamental,
		Samples:     len(block),
		Amplitudes:  make([]float64, 0, count),
	}

	nyquist := math.Pi / dt
	for k := 1; k <= count; k++ {
		omega := float64(k) * fundamental
		if omega > nyquist {
			break
		}

		g, err := NewGoertzel(omega, dt)
		if err != nil {
			return Result{}, err
		}
		g.ProcessBlock(block)
		res.Amplitudes = append(res.Amplitudes, g.Amplitude())
	}

	res.THD = thd(res.Amplitudes)

	return res, nil
}

func thd(amps []float64) float64 {
	if len(amps) == 0 || amps[0] == 0 {
		return 0
	}

	var sum float64
	for _, a := range amps[1:] {
		sum += a * a
	}

	return math.Sqrt(sum) / amps[0]
}
