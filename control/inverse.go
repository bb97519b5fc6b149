package control

// InverseModel estimates the disturbance force from the commanded input and
// the measured position:
//
//	e = Ktn*u - Mn*d²y/dt²
//
// The acceleration is taken with two cascaded pseudo-derivatives.
type InverseModel struct {
	NominalMass   float64
	NominalThrust float64

	velocity *PseudoDerivative
	accel    *PseudoDerivative
	lastAcc  float64
}

// NewInverseModel returns an inverse model for a plant with nominal mass
// (kg) and thrust constant (N/A), differentiating with the given cutoff
// (rad/s) at sample interval dt.
func NewInverseModel(mass, thrust, cutoff, dt float64) (*InverseModel, error) {
	if err := positive("nominal mass", mass); err != nil {
		return nil, err
	}
	if err := positive("nominal thrust constant", thrust); err != nil {
		return nil, err
	}

	vel, err := NewPseudoDerivative(cutoff, dt)
	if err != nil {
		return nil, err
	}
	acc, err := NewPseudoDerivative(cutoff, dt)
	if err != nil {
		return nil, err
	}

	return &InverseModel{
		NominalMass:   mass,
		NominalThrust: thrust,
		velocity:      vel,
		accel:         acc,
	}, nil
}

// Error returns the disturbance error for input current u and measured
// position y.
func (m *InverseModel) Error(u, y float64) float64 {
	m.lastAcc = m.accel.Process(m.velocity.Process(y))
	return m.NominalThrust*u - m.NominalMass*m.lastAcc
}

// Acceleration returns the acceleration estimate of the last call.
func (m *InverseModel) Acceleration() float64 { return m.lastAcc }

// Reset clears both differentiators.
func (m *InverseModel) Reset() {
	m.velocity.Reset()
	m.accel.Reset()
	m.lastAcc = 0
}
