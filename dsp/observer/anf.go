package observer

import (
	"math"

	"github.com/cwbudde/algo-apdob/dsp/core"
	"github.com/cwbudde/algo-apdob/dsp/filter/design"
	"github.com/cwbudde/algo-apdob/dsp/filter/onepole"
)

// MaxCovariance bounds the RLS covariance P. Without a bound P grows by
// 1/Forgetting on every adaptation step while the input carries no
// excitation, and eventually overflows.
const MaxCovariance = 1e12

// FrequencyEstimator is the adaptive notch filter (ANF) that tracks the
// fundamental angular frequency of a periodic disturbance.
//
// Per tick it
//
//  1. extracts the fundamental with a [TrackingBandpass] centered at the
//     previous estimate,
//  2. forms the notch residual eta from the band-pass output history and
//     the adaptation variable xi = -2*cos(w*T),
//  3. every Decimation ticks runs a recursive-least-squares step that
//     drives eta toward zero,
//  4. converts xi to a raw frequency acos(-xi/2)/T with xi clamped to
//     [-2, 2], and
//  5. smooths the raw frequency with a first-order low-pass.
//
// The smoothed value is returned and becomes the next tick's band-pass
// center.
type FrequencyEstimator struct {
	dt         float64
	r          float64
	forgetting float64
	decimation int
	initial    float64
	p0         float64

	bandpass  *TrackingBandpass
	smoothing *onepole.Section

	xi    float64
	p     float64
	count int
	warm  bool

	// notch history: band-pass outputs and residuals at t-1, t-2
	fund1, fund2 float64
	eta1, eta2   float64

	raw      float64
	estimate float64
}

// NewFrequencyEstimator validates p and returns an estimator at rest at
// p.InitialFrequency.
func NewFrequencyEstimator(p Params) (*FrequencyEstimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := &FrequencyEstimator{
		dt:         p.SampleInterval,
		r:          p.NotchDamping,
		forgetting: p.Forgetting,
		decimation: p.Decimation,
		initial:    p.InitialFrequency,
		p0:         1 / p.Regularization,
		bandpass:   NewTrackingBandpass(p.BandpassCutoff, p.SampleInterval, p.InitialFrequency),
		smoothing:  onepole.NewSection(design.Lowpass1(p.SmoothingCutoff, p.SampleInterval)),
	}
	f.Reset()

	return f, nil
}

// Update consumes one disturbance-error sample and returns the smoothed
// frequency estimate in rad/s. Non-finite samples are treated as zero.
func (f *FrequencyEstimator) Update(e float64) float64 {
	e = core.FiniteOr(e, 0)

	fund := f.bandpass.Process(e, f.estimate)

	alpha := -f.r*f.eta1 + f.fund1
	beta := -f.r*f.r*f.eta2 + fund + f.fund2
	eta := core.FlushDenormals(alpha*f.xi + beta)

	f.fund2, f.fund1 = f.fund1, fund
	f.eta2, f.eta1 = f.eta1, eta

	if f.count == 0 && f.warm {
		f.adapt(alpha, eta)
	}

	f.warm = true
	f.count++
	if f.count == f.decimation {
		f.count = 0
	}

	f.raw = f.frequency()
	f.estimate = f.smoothing.ProcessSample(f.raw)

	return f.estimate
}

// adapt runs one RLS step. A step that would produce a non-finite state is
// dropped and xi and P keep their previous values.
func (f *FrequencyEstimator) adapt(alpha, eta float64) {
	pa := f.p * alpha
	gain := pa / (f.forgetting + pa*alpha)
	xi := f.xi + gain*(0-eta)
	p := (f.p - gain*alpha*f.p) / f.forgetting

	if !core.IsFinite(gain) || !core.IsFinite(xi) || !core.IsFinite(p) {
		return
	}

	f.xi = xi
	f.p = core.Clamp(p, math.SmallestNonzeroFloat64, MaxCovariance)
}

// frequency converts xi to rad/s. The clamp keeps acos inside its domain.
func (f *FrequencyEstimator) frequency() float64 {
	xi := core.Clamp(f.xi, -2, 2)
	return math.Acos(-0.5*xi) / f.dt
}

// Estimate returns the most recent smoothed frequency (rad/s).
func (f *FrequencyEstimator) Estimate() float64 { return f.estimate }

// Raw returns the most recent unsmoothed frequency (rad/s).
func (f *FrequencyEstimator) Raw() float64 { return f.raw }

// Xi returns the adaptation variable, nominally -2*cos(w*T).
func (f *FrequencyEstimator) Xi() float64 { return f.xi }

// Covariance returns the RLS covariance P. The step gain of each
// adaptation is P*alpha/(Forgetting+P*alpha²).
func (f *FrequencyEstimator) Covariance() float64 { return f.p }

// Residual returns the most recent notch residual eta.
func (f *FrequencyEstimator) Residual() float64 { return f.eta1 }

// Fundamental returns the most recent band-pass output.
func (f *FrequencyEstimator) Fundamental() float64 { return f.fund1 }

// Bandpass exposes the tracking band-pass for inspection.
func (f *FrequencyEstimator) Bandpass() *TrackingBandpass { return f.bandpass }

// Reset returns the estimator to its initial state.
func (f *FrequencyEstimator) Reset() {
	f.xi = -2 * math.Cos(f.initial*f.dt)
	f.p = f.p0
	f.count = 0
	f.warm = false
	f.fund1, f.fund2 = 0, 0
	f.eta1, f.eta2 = 0, 0
	f.raw = f.initial
	f.estimate = f.initial

	f.bandpass.Reset(f.initial)
	f.smoothing.Reset()
	f.smoothing.Prime(f.initial, f.initial)
}
