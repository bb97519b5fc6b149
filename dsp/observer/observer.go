package observer

import "fmt"

// Estimate is the observer output for one tick.
type Estimate struct {
	Frequency   float64 // fundamental angular frequency (rad/s)
	Disturbance float64 // periodic-disturbance estimate
}

// Observer is the adaptive periodic-disturbance observer. It owns one
// [FrequencyEstimator] and one [DisturbanceEstimator].
type Observer struct {
	params Params
	freq   *FrequencyEstimator
	dist   *DisturbanceEstimator
}

// New validates p and returns an observer at rest. A failed validation
// returns an error wrapping [ErrInvalidConfig] and no observer.
func New(p Params) (*Observer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	freq, err := NewFrequencyEstimator(p)
	if err != nil {
		return nil, err
	}

	dist, err := NewDisturbanceEstimator(p)
	if err != nil {
		return nil, err
	}

	return &Observer{params: p, freq: freq, dist: dist}, nil
}

// UpdateFrequency runs the adaptive notch filter on one error sample and
// returns the fundamental frequency estimate (rad/s).
func (o *Observer) UpdateFrequency(e float64) float64 {
	return o.freq.Update(e)
}

// UpdateDisturbance runs the Q-filter on the same tick's error sample and
// frequency estimate. An error is only returned under [DelayError] when the
// delay count had to be clamped; the returned estimate is valid either way.
func (o *Observer) UpdateDisturbance(e, freq float64) (float64, error) {
	return o.dist.Update(e, freq)
}

// Update runs both stages for one tick.
func (o *Observer) Update(e float64) (Estimate, error) {
	w := o.freq.Update(e)
	d, err := o.dist.Update(e, w)

	return Estimate{Frequency: w, Disturbance: d}, err
}

// ProcessBlock runs one tick per element of errs, writing the frequency and
// disturbance estimates into freqs and dists. Either output may be nil;
// otherwise it must be as long as errs. The whole block is processed even
// if a tick reports a delay range error; the first such error is returned.
func (o *Observer) ProcessBlock(errs, freqs, dists []float64) error {
	if freqs != nil && len(freqs) != len(errs) {
		return fmt.Errorf("observer: freqs length %d != errs length %d", len(freqs), len(errs))
	}

	if dists != nil && len(dists) != len(errs) {
		return fmt.Errorf("observer: dists length %d != errs length %d", len(dists), len(errs))
	}

	var first error

	for i, e := range errs {
		est, err := o.Update(e)
		if err != nil && first == nil {
			first = fmt.Errorf("observer: sample %d: %w", i, err)
		}

		if freqs != nil {
			freqs[i] = est.Frequency
		}

		if dists != nil {
			dists[i] = est.Disturbance
		}
	}

	return first
}

// Params returns the parameters the observer was built with.
func (o *Observer) Params() Params { return o.params }

// Frequency returns the frequency estimator.
func (o *Observer) Frequency() *FrequencyEstimator { return o.freq }

// Disturbance returns the disturbance estimator.
func (o *Observer) Disturbance() *DisturbanceEstimator { return o.dist }

// Reset returns both stages to their initial state.
func (o *Observer) Reset() {
	o.freq.Reset()
	o.dist.Reset()
}
