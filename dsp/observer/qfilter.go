package observer

import (
	"math"

	"github.com/cwbudde/algo-apdob/dsp/core"
	"github.com/cwbudde/algo-apdob/dsp/delay"
	"github.com/cwbudde/algo-apdob/dsp/filter/design"
	"github.com/cwbudde/algo-apdob/dsp/filter/onepole"
)

// DelayCount converts a frequency estimate into the Q-filter delay in
// samples:
//
//	N = floor((2*pi*gp*gamma - w) / (T*gp*w*gamma))
//
// For a steady sinusoid at w this is one fundamental period scaled by the
// design ratio, less the low-pass group delay. The result is returned as a
// float64 so that degenerate inputs stay visible: w = 0 gives +Inf,
// negative or very large w give negative counts, NaN propagates.
func DelayCount(freq, qCutoff, ratio, dt float64) float64 {
	return math.Floor((2*math.Pi*qCutoff*ratio - freq) / (dt * qCutoff * freq * ratio))
}

// DisturbanceEstimator is the Q-filter: a low-pass baseline estimate of the
// disturbance corrected by its own value one scaled fundamental period
// earlier.
//
//	d = hatD - gamma*(hatD - hatD[t-N])
type DisturbanceEstimator struct {
	dt      float64
	qCutoff float64
	ratio   float64
	policy  DelayPolicy

	lowpass *onepole.Section
	line    *delay.Line

	baseline float64
	delay    int
	estimate float64
}

// NewDisturbanceEstimator validates p and returns a Q-filter with an empty
// delay line sized for p.MaxDelayTime.
func NewDisturbanceEstimator(p Params) (*DisturbanceEstimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	line, err := delay.NewForDuration(p.MaxDelayTime, delay.DefaultMargin, p.SampleInterval)
	if err != nil {
		return nil, &ConfigurationError{Field: "MaxDelayTime", Value: p.MaxDelayTime, Reason: err.Error()}
	}

	return &DisturbanceEstimator{
		dt:      p.SampleInterval,
		qCutoff: p.QCutoff,
		ratio:   p.DesignRatio,
		policy:  p.DelayPolicy,
		lowpass: onepole.NewSection(design.Lowpass1(p.QCutoff, p.SampleInterval)),
		line:    line,
	}, nil
}

// Update consumes the same-tick error sample and frequency estimate and
// returns the periodic-disturbance estimate.
//
// When the delay count falls outside [0, MaxDelay] it is clamped: NaN and
// negative counts read the newest sample, counts above the limit read the
// oldest. Under [DelayError] the clamped estimate is returned together with
// a *delay.RangeError; the state advances either way.
func (q *DisturbanceEstimator) Update(e, freq float64) (float64, error) {
	e = core.FiniteOr(e, 0)

	q.baseline = q.lowpass.ProcessSample(e)
	q.line.Push(q.baseline)

	n, rangeErr := q.resolveDelay(DelayCount(freq, q.qCutoff, q.ratio, q.dt))
	q.delay = n

	delayed := q.line.Read(n)
	q.estimate = q.baseline - q.ratio*(q.baseline-delayed)

	if rangeErr != nil && q.policy == DelayError {
		return q.estimate, rangeErr
	}

	return q.estimate, nil
}

// resolveDelay clamps a raw delay count into the line's valid range and
// reports whether clamping was needed.
func (q *DisturbanceEstimator) resolveDelay(raw float64) (int, error) {
	limit := q.line.ResetThreshold()

	switch {
	case math.IsNaN(raw):
		return 0, &delay.RangeError{Offset: math.MinInt, Max: limit}
	case raw < 0:
		return 0, &delay.RangeError{Offset: saturate(raw), Max: limit}
	case raw > float64(limit):
		return limit, &delay.RangeError{Offset: saturate(raw), Max: limit}
	default:
		return int(raw), nil
	}
}

func saturate(x float64) int {
	if x >= math.MaxInt {
		return math.MaxInt
	}

	if x <= math.MinInt {
		return math.MinInt
	}

	return int(x)
}

// Baseline returns the most recent low-pass disturbance estimate.
func (q *DisturbanceEstimator) Baseline() float64 { return q.baseline }

// Delay returns the delay count used by the most recent update.
func (q *DisturbanceEstimator) Delay() int { return q.delay }

// MaxDelay returns the largest usable delay count.
func (q *DisturbanceEstimator) MaxDelay() int { return q.line.ResetThreshold() }

// Estimate returns the most recent periodic-disturbance estimate.
func (q *DisturbanceEstimator) Estimate() float64 { return q.estimate }

// Reset clears the low-pass and the delay line.
func (q *DisturbanceEstimator) Reset() {
	q.lowpass.Reset()
	q.line.Reset()
	q.baseline = 0
	q.delay = 0
	q.estimate = 0
}
