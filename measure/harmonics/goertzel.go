// Package harmonics measures the amplitudes of a fundamental and its
// harmonics in a sampled signal, using one Goertzel recurrence per
// harmonic.
package harmonics

import (
	"fmt"
	"math"
)

// Goertzel evaluates a single DFT term at an angular frequency.
//
// Power and Amplitude cover all samples processed since the last Reset.
// Amplitudes are exact when the block spans a whole number of periods of
// the target; otherwise the term leaks into its neighbours.
type Goertzel struct {
	omega float64
	dt    float64
	coeff float64
	s0    float64
	s1    float64
	n     int
}

// NewGoertzel returns an analyzer for omega (rad/s) at sample interval dt.
// omega must lie in [0, pi/dt].
func NewGoertzel(omega, dt float64) (*Goertzel, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("harmonics: sample interval must be > 0: %v", dt)
	}
	if !(omega >= 0) || omega > math.Pi/dt {
		return nil, fmt.Errorf("harmonics: frequency must be in [0, %v] rad/s: %v", math.Pi/dt, omega)
	}

	return &Goertzel{
		omega: omega,
		dt:    dt,
		coeff: 2 * math.Cos(omega*dt),
	}, nil
}

// ProcessSample feeds one sample.
func (g *Goertzel) ProcessSample(x float64) {
	s := x + g.coeff*g.s0 - g.s1
	g.s1 = g.s0
	g.s0 = s
	g.n++
}

// ProcessBlock feeds a block of samples.
func (g *Goertzel) ProcessBlock(xs []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff

	for _, x := range xs {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
	g.n += len(xs)
}

// Power returns |X|², the squared magnitude of the DFT term.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Amplitude returns the peak amplitude of the sinusoid at the target
// frequency, or the mean for omega = 0.
func (g *Goertzel) Amplitude() float64 {
	p := g.Power()
	if g.n == 0 || p <= 0 {
		return 0
	}

	a := math.Sqrt(p) / float64(g.n)
	if g.omega == 0 {
		return a
	}

	return 2 * a
}

// Omega returns the target frequency in rad/s.
func (g *Goertzel) Omega() float64 { return g.omega }

// Samples returns the number of samples processed since the last Reset.
func (g *Goertzel) Samples() int { return g.n }

// Reset clears the recurrence.
func (g *Goertzel) Reset() {
	g.s0, g.s1 = 0, 0
	g.n = 0
}
