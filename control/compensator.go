package control

// Compensator converts an acceleration reference into an input current and
// cancels the estimated disturbance force:
//
//	u = (Mn*a + d) / Ktn
type Compensator struct {
	NominalMass   float64
	NominalThrust float64
}

// NewCompensator returns a compensator for the nominal plant.
func NewCompensator(mass, thrust float64) (*Compensator, error) {
	if err := positive("nominal mass", mass); err != nil {
		return nil, err
	}
	if err := positive("nominal thrust constant", thrust); err != nil {
		return nil, err
	}

	return &Compensator{NominalMass: mass, NominalThrust: thrust}, nil
}

// Input returns the current for acceleration reference accel and
// disturbance estimate dist.
func (c *Compensator) Input(accel, dist float64) float64 {
	return (c.NominalMass*accel + dist) / c.NominalThrust
}
