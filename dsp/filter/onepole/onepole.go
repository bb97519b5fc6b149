// Package onepole provides first-order IIR sections.
//
// A [Section] keeps one previous input and one previous output and applies
//
//	y = B0*x + B1*x1 - A1*y1
//
// Coefficients usually come from the bilinear designs in dsp/filter/design.
package onepole

import "github.com/cwbudde/algo-apdob/dsp/core"

// Coefficients holds the transfer function coefficients of a first-order
// section. a0 is normalized to 1 and not stored.
//
//	H(z) = (B0 + B1*z^-1) / (1 + A1*z^-1)
type Coefficients struct {
	B0, B1 float64
	A1     float64
}

// DCGain returns H(1), the steady-state gain for a constant input.
func (c Coefficients) DCGain() float64 {
	return (c.B0 + c.B1) / (1 + c.A1)
}

// Section is a first-order filter with coefficients and history. Outputs
// below 1e-30 in magnitude are flushed to zero.
type Section struct {
	Coefficients

	x1, y1 float64
}

// NewSection returns a Section with zero history.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := core.FlushDenormals(s.B0*x + s.B1*s.x1 - s.A1*s.y1)
	s.x1 = x
	s.y1 = y

	return y
}

// ProcessBlock filters buf in-place.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, a1 := s.B0, s.B1, s.A1
	x1, y1 := s.x1, s.y1

	for i, x := range buf {
		y := core.FlushDenormals(b0*x + b1*x1 - a1*y1)
		x1, y1 = x, y
		buf[i] = y
	}

	s.x1, s.y1 = x1, y1
}

// Prime seeds the history as if the filter had last seen input x and
// produced output y.
func (s *Section) Prime(x, y float64) {
	s.x1 = x
	s.y1 = y
}

// Reset clears the history to zero.
func (s *Section) Reset() {
	s.x1, s.y1 = 0, 0
}

// State returns the history [x1, y1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.x1, s.y1}
}

// Output returns the most recent output.
func (s *Section) Output() float64 {
	return s.y1
}
