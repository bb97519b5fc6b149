package control

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-apdob/dsp/filter/design"
	"github.com/cwbudde/algo-apdob/dsp/filter/onepole"
)

// PseudoDerivative approximates d/dt with g*s/(s+g): a derivative below the
// cutoff g and a constant gain above it.
type PseudoDerivative struct {
	section *onepole.Section
	cutoff  float64
}

// NewPseudoDerivative returns a pseudo-derivative with the given cutoff
// (rad/s) at sample interval dt.
func NewPseudoDerivative(cutoff, dt float64) (*PseudoDerivative, error) {
	if err := positive("cutoff", cutoff); err != nil {
		return nil, err
	}
	if err := positive("sample interval", dt); err != nil {
		return nil, err
	}

	return &PseudoDerivative{
		section: onepole.NewSection(design.Differentiator1(cutoff, dt)),
		cutoff:  cutoff,
	}, nil
}

// Process differentiates one sample.
func (p *PseudoDerivative) Process(x float64) float64 {
	return p.section.ProcessSample(x)
}

// Cutoff returns the cutoff in rad/s.
func (p *PseudoDerivative) Cutoff() float64 { return p.cutoff }

// Reset clears the history.
func (p *PseudoDerivative) Reset() {
	p.section.Reset()
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("control: %s must be finite and > 0: %v", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return fmt.Errorf("control: %s must be finite and >= 0: %v", name, v)
	}
	return nil
}
