package control

// PD is a proportional-derivative position controller producing an
// acceleration reference Kp*e + Kv*de/dt.
type PD struct {
	Kp, Kv float64

	deriv *PseudoDerivative
}

// NewPD returns a PD controller whose error derivative uses the given
// cutoff (rad/s) at sample interval dt.
func NewPD(kp, kv, cutoff, dt float64) (*PD, error) {
	if err := positive("proportional gain", kp); err != nil {
		return nil, err
	}
	if err := nonNegative("derivative gain", kv); err != nil {
		return nil, err
	}

	d, err := NewPseudoDerivative(cutoff, dt)
	if err != nil {
		return nil, err
	}

	return &PD{Kp: kp, Kv: kv, deriv: d}, nil
}

// Command returns the acceleration reference for position command ref and
// measured position y.
func (c *PD) Command(ref, y float64) float64 {
	e := ref - y
	return c.Kp*e + c.Kv*c.deriv.Process(e)
}

// Reset clears the derivative history.
func (c *PD) Reset() {
	c.deriv.Reset()
}

// AccelFeedforward is the second pseudo-derivative of the position
// command.
type AccelFeedforward struct {
	velocity *PseudoDerivative
	accel    *PseudoDerivative
}

// NewAccelFeedforward returns a feedforward path with the given cutoff
// (rad/s) at sample interval dt.
func NewAccelFeedforward(cutoff, dt float64) (*AccelFeedforward, error) {
	vel, err := NewPseudoDerivative(cutoff, dt)
	if err != nil {
		return nil, err
	}
	acc, err := NewPseudoDerivative(cutoff, dt)
	if err != nil {
		return nil, err
	}

	return &AccelFeedforward{velocity: vel, accel: acc}, nil
}

// Acceleration returns the command acceleration for position command ref.
func (f *AccelFeedforward) Acceleration(ref float64) float64 {
	return f.accel.Process(f.velocity.Process(ref))
}

// Reset clears both differentiators.
func (f *AccelFeedforward) Reset() {
	f.velocity.Reset()
	f.accel.Reset()
}
