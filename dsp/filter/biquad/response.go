package biquad

import (
	"math"
	"math/cmplx"
)

// Frequencies below are angular (rad/s) at sample interval dt (s), so the
// normalized frequency is omega*dt rad/sample.

// Response returns H(e^{j*omega*dt}).
func (c *Coefficients) Response(omega, dt float64) complex128 {
	z1 := cmplx.Exp(complex(0, -omega*dt))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

// MagnitudeSquared returns |H|² at omega in closed form.
func (c *Coefficients) MagnitudeSquared(omega, dt float64) float64 {
	cw := 2 * math.Cos(omega*dt)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// Poles returns the roots of 1 + A1*z^-1 + A2*z^-2.
func (c *Coefficients) Poles() [2]complex128 {
	disc := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))

	return [2]complex128{
		(-complex(c.A1, 0) + disc) / 2,
		(-complex(c.A1, 0) - disc) / 2,
	}
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	p := c.Poles()
	return cmplx.Abs(p[0]) < 1 && cmplx.Abs(p[1]) < 1
}

// MagnitudeSquared returns the cascade's |H|² at omega.
func (c *Chain) MagnitudeSquared(omega, dt float64) float64 {
	g := 1.0
	for i := range c.sections {
		g *= c.sections[i].MagnitudeSquared(omega, dt)
	}

	return g
}

// ImpulseResponse returns the first n samples of the section's impulse
// response. The history is restored afterwards.
func (s *Section) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := s.State()
	s.Reset()

	ir := make([]float64, n)
	ir[0] = s.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = s.ProcessSample(0)
	}

	s.SetState(saved)

	return ir
}
