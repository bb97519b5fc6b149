package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// AngularSine generates amplitude*sin(omega*t) sampled every dt seconds.
func AngularSine(omega, dt, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Sin(omega*float64(i)*dt)
	}
	return out
}

// HarmonicSum returns sum_{k=1..harmonics} sin(k*omega*t).
func HarmonicSum(omega, t float64, harmonics int) float64 {
	var sum float64
	for k := 1; k <= harmonics; k++ {
		sum += math.Sin(float64(k) * omega * t)
	}
	return sum
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
