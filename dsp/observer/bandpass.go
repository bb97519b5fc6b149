package observer

import (
	"github.com/cwbudde/algo-apdob/dsp/filter/biquad"
	"github.com/cwbudde/algo-apdob/dsp/filter/design"
)

// trackingSections is the number of cascaded band-pass sections.
const trackingSections = 2

// TrackingBandpass is a fourth-order band-pass made of two identical
// second-order sections whose center frequency follows a caller-supplied
// estimate. Coefficients are recomputed on every call; the section
// histories carry over.
type TrackingBandpass struct {
	chain     *biquad.Chain
	bandwidth float64
	dt        float64
	center    float64
}

// NewTrackingBandpass returns a band-pass with the given per-section
// bandwidth (rad/s) at sample interval dt, initially centered at center.
func NewTrackingBandpass(bandwidth, dt, center float64) *TrackingBandpass {
	return &TrackingBandpass{
		chain:     biquad.NewUniformChain(trackingSections, design.Bandpass2(center, bandwidth, dt)),
		bandwidth: bandwidth,
		dt:        dt,
		center:    center,
	}
}

// Process redesigns both sections for center (rad/s) and filters x.
func (b *TrackingBandpass) Process(x, center float64) float64 {
	b.center = center
	b.chain.UpdateAll(design.Bandpass2(center, b.bandwidth, b.dt))

	return b.chain.ProcessSample(x)
}

// Center returns the center frequency used by the last call.
func (b *TrackingBandpass) Center() float64 {
	return b.center
}

// Coefficients returns the coefficients currently loaded into each section.
func (b *TrackingBandpass) Coefficients() biquad.Coefficients {
	return b.chain.Section(0).Coefficients
}

// Reset clears the section histories and recenters at center.
func (b *TrackingBandpass) Reset(center float64) {
	b.chain.Reset()
	b.center = center
	b.chain.UpdateAll(design.Bandpass2(center, b.bandwidth, b.dt))
}
