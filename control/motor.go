package control

// Motor is a rigid linear motor driven by current u against a disturbance
// force d:
//
//	M*x'' = Kt*u - d
//
// Velocity and position are integrated with the trapezoidal rule at a fixed
// step.
type Motor struct {
	Mass   float64
	Thrust float64

	step float64
	x    float64
	v    float64
	a    float64
}

// NewMotor returns a motor at rest at the origin, integrated every step
// seconds.
func NewMotor(mass, thrust, step float64) (*Motor, error) {
	if err := positive("mass", mass); err != nil {
		return nil, err
	}
	if err := positive("thrust constant", thrust); err != nil {
		return nil, err
	}
	if err := positive("integration step", step); err != nil {
		return nil, err
	}

	return &Motor{Mass: mass, Thrust: thrust, step: step}, nil
}

// Step advances the motor by one integration step and returns the new
// position.
func (m *Motor) Step(u, d float64) float64 {
	a := (m.Thrust*u - d) / m.Mass
	v := m.v + 0.5*m.step*(a+m.a)
	m.x += 0.5 * m.step * (v + m.v)
	m.v = v
	m.a = a

	return m.x
}

// Position returns the current position (m).
func (m *Motor) Position() float64 { return m.x }

// Velocity returns the current velocity (m/s).
func (m *Motor) Velocity() float64 { return m.v }

// Acceleration returns the acceleration of the last step (m/s²).
func (m *Motor) Acceleration() float64 { return m.a }

// StepSize returns the integration step in seconds.
func (m *Motor) StepSize() float64 { return m.step }

// Reset puts the motor back at rest at the origin.
func (m *Motor) Reset() {
	m.x, m.v, m.a = 0, 0, 0
}
