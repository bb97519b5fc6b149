package observer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-apdob/dsp/delay"
)

// DelayPolicy selects how [DisturbanceEstimator] handles a delay count that
// falls outside the delay line's valid range.
type DelayPolicy int

const (
	// DelayClamp clamps the count into [0, resetThreshold].
	DelayClamp DelayPolicy = iota
	// DelayError clamps as well, and additionally reports a
	// *delay.RangeError from UpdateDisturbance.
	DelayError
)

// String implements fmt.Stringer.
func (p DelayPolicy) String() string {
	switch p {
	case DelayClamp:
		return "clamp"
	case DelayError:
		return "error"
	default:
		return fmt.Sprintf("DelayPolicy(%d)", int(p))
	}
}

// ErrInvalidConfig is wrapped by every [ConfigurationError].
var ErrInvalidConfig = errors.New("observer: invalid configuration")

// ConfigurationError reports a parameter that violates its constraint.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("observer: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns [ErrInvalidConfig].
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// Params holds the observer design parameters. Frequencies are angular
// (rad/s) and times are in seconds. Params are copied at construction and
// never change afterwards.
type Params struct {
	// SampleInterval is the control period Tk.
	SampleInterval float64 `yaml:"sample_interval"`
	// QCutoff is the cutoff of the Q-filter low-pass.
	QCutoff float64 `yaml:"q_cutoff"`
	// DesignRatio is the Q-filter design ratio gamma in (0, 1].
	DesignRatio float64 `yaml:"design_ratio"`
	// SmoothingCutoff is the cutoff of the low-pass that smooths the raw
	// frequency estimate.
	SmoothingCutoff float64 `yaml:"smoothing_cutoff"`
	// BandpassCutoff is the bandwidth of each tracking band-pass section.
	BandpassCutoff float64 `yaml:"bandpass_cutoff"`
	// NotchDamping is the notch pole radius r in (0, 1).
	NotchDamping float64 `yaml:"notch_damping"`
	// Decimation is the multi-rate ratio: the adaptation law runs once
	// every Decimation ticks.
	Decimation int `yaml:"decimation"`
	// Forgetting is the adaptation forgetting factor in (0, 1].
	Forgetting float64 `yaml:"forgetting"`
	// Regularization seeds the RLS covariance: P starts at 1/Regularization.
	Regularization float64 `yaml:"regularization"`
	// MaxDelayTime bounds the Q-filter delay.
	MaxDelayTime float64 `yaml:"max_delay_time"`
	// InitialFrequency is the first guess of the fundamental frequency.
	InitialFrequency float64 `yaml:"initial_frequency"`
	// DelayPolicy selects the out-of-range delay handling.
	DelayPolicy DelayPolicy `yaml:"delay_policy"`
}

// DefaultParams returns the reference tuning for a 10 kHz servo loop
// with a disturbance fundamental near 100 rad/s.
func DefaultParams() Params {
	return Params{
		SampleInterval:   1e-4,
		QCutoff:          1000,
		DesignRatio:      0.5,
		SmoothingCutoff:  10,
		BandpassCutoff:   20,
		NotchDamping:     0.7,
		Decimation:       10,
		Forgetting:       0.999,
		Regularization:   1000,
		MaxDelayTime:     10,
		InitialFrequency: 100,
		DelayPolicy:      DelayClamp,
	}
}

// Nyquist returns the Nyquist angular frequency pi/SampleInterval.
func (p Params) Nyquist() float64 {
	return math.Pi / p.SampleInterval
}

// Validate checks every parameter and returns all violations joined.
// Each violation is a *ConfigurationError.
func (p Params) Validate() error {
	var errs []error

	bad := func(field string, value float64, reason string) {
		errs = append(errs, &ConfigurationError{Field: field, Value: value, Reason: reason})
	}

	positive := func(field string, value float64) bool {
		if !(value > 0) || math.IsInf(value, 0) {
			bad(field, value, "must be finite and > 0")
			return false
		}
		return true
	}

	dtOK := positive("SampleInterval", p.SampleInterval)
	positive("QCutoff", p.QCutoff)
	positive("SmoothingCutoff", p.SmoothingCutoff)
	positive("BandpassCutoff", p.BandpassCutoff)
	positive("Regularization", p.Regularization)

	if positive("DesignRatio", p.DesignRatio) && p.DesignRatio > 1 {
		bad("DesignRatio", p.DesignRatio, "must be <= 1")
	}

	if !(p.NotchDamping > 0 && p.NotchDamping < 1) {
		bad("NotchDamping", p.NotchDamping, "must be in (0, 1)")
	}

	if p.Decimation < 1 {
		bad("Decimation", float64(p.Decimation), "must be >= 1")
	}

	if !(p.Forgetting > 0 && p.Forgetting <= 1) {
		bad("Forgetting", p.Forgetting, "must be in (0, 1]")
	}

	if positive("MaxDelayTime", p.MaxDelayTime) && dtOK {
		switch {
		case p.MaxDelayTime < p.SampleInterval:
			bad("MaxDelayTime", p.MaxDelayTime, "must be >= SampleInterval")
		case (p.MaxDelayTime+delay.DefaultMargin)/p.SampleInterval > delay.MaxCapacity:
			bad("MaxDelayTime", p.MaxDelayTime, fmt.Sprintf("needs more than %d delay samples", delay.MaxCapacity))
		}
	}

	if positive("InitialFrequency", p.InitialFrequency) && dtOK && p.InitialFrequency >= p.Nyquist() {
		bad("InitialFrequency", p.InitialFrequency, fmt.Sprintf("must be below Nyquist %.6g", p.Nyquist()))
	}

	if p.DelayPolicy != DelayClamp && p.DelayPolicy != DelayError {
		bad("DelayPolicy", float64(p.DelayPolicy), "unknown policy")
	}

	return errors.Join(errs...)
}

// MarshalText implements encoding.TextMarshaler.
func (p DelayPolicy) MarshalText() ([]byte, error) {
	switch p {
	case DelayClamp, DelayError:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("observer: unknown delay policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting "clamp" and
// "error".
func (p *DelayPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "clamp", "":
		*p = DelayClamp
	case "error":
		*p = DelayError
	default:
		return fmt.Errorf("observer: unknown delay policy %q", text)
	}

	return nil
}
