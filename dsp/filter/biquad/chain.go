package biquad

// Chain is a cascade of sections processed in series.
type Chain struct {
	sections []Section
}

// NewChain returns a cascade with one zero-history section per
// coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// NewUniformChain returns a cascade of n identical sections.
func NewUniformChain(n int, coeffs Coefficients) *Chain {
	if n < 0 {
		n = 0
	}

	c := &Chain{sections: make([]Section, n)}
	c.UpdateAll(coeffs)

	return c
}

// ProcessSample runs x through every section in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through the cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section histories.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of sections.
func (c *Chain) NumSections() int {
	return len(c.sections)
}

// UpdateAll loads the same coefficients into every section and keeps
// their history. It does not allocate.
func (c *Chain) UpdateAll(coeffs Coefficients) {
	for i := range c.sections {
		c.sections[i].Coefficients = coeffs
	}
}

// Section returns the i-th section.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// State returns a snapshot of all section histories.
func (c *Chain) State() [][4]float64 {
	states := make([][4]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores histories saved by State. len(states) must equal
// NumSections.
func (c *Chain) SetState(states [][4]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
