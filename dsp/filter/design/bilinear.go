package design

import (
	"math"

	"github.com/cwbudde/algo-apdob/dsp/filter/biquad"
	"github.com/cwbudde/algo-apdob/dsp/filter/onepole"
)

// Bilinear2 converts the analog transfer function
//
//	(n0*s^2 + n1*s + n2) / (d0*s^2 + d1*s + d2)
//
// into biquad coefficients for sample interval dt. Both polynomials are
// scaled by dt^2*(1+z^-1)^2 before normalization so the arithmetic stays
// close to unity for small dt.
//
// Invalid input (non-positive dt, vanishing or non-finite leading
// denominator) yields zero coefficients, which silence the section.
func Bilinear2(num, den [3]float64, dt float64) biquad.Coefficients {
	if !validInterval(dt) {
		return biquad.Coefficients{}
	}

	t2 := dt * dt
	b0, b1, b2 := bilinearQuadratic(num, dt, t2)
	a0, a1, a2 := bilinearQuadratic(den, dt, t2)

	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// Bilinear1 converts the analog transfer function
//
//	(n0*s + n1) / (d0*s + d1)
//
// into first-order coefficients for sample interval dt.
func Bilinear1(num, den [2]float64, dt float64) onepole.Coefficients {
	if !validInterval(dt) {
		return onepole.Coefficients{}
	}

	b0 := 2*num[0] + num[1]*dt
	b1 := -2*num[0] + num[1]*dt
	a0 := 2*den[0] + den[1]*dt
	a1 := -2*den[0] + den[1]*dt

	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return onepole.Coefficients{}
	}

	return onepole.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		A1: a1 / a0,
	}
}

// Lowpass1 designs the first-order low-pass g/(s+g) with cutoff g (rad/s).
func Lowpass1(cutoff, dt float64) onepole.Coefficients {
	return Bilinear1([2]float64{0, cutoff}, [2]float64{1, cutoff}, dt)
}

// Differentiator1 designs the pseudo-derivative g*s/(s+g): a derivative
// below the cutoff g (rad/s), a constant gain g above it.
func Differentiator1(cutoff, dt float64) onepole.Coefficients {
	return Bilinear1([2]float64{cutoff, 0}, [2]float64{1, cutoff}, dt)
}

// Bandpass2 designs the second-order band-pass
//
//	b*s / (s^2 + b*s + w^2)
//
// centered at w (rad/s) with -3 dB bandwidth b (rad/s). The gain at the
// analog center frequency is exactly one.
func Bandpass2(center, bandwidth, dt float64) biquad.Coefficients {
	return Bilinear2(
		[3]float64{0, bandwidth, 0},
		[3]float64{1, bandwidth, center * center},
		dt,
	)
}

// bilinearQuadratic maps c0*s^2 + c1*s + c2 to the dt^2-scaled
// z^-1 polynomial coefficients.
func bilinearQuadratic(c [3]float64, dt, t2 float64) (z0, z1, z2 float64) {
	z0 = 4*c[0] + 2*c[1]*dt + c[2]*t2
	z1 = -8*c[0] + 2*c[2]*t2
	z2 = 4*c[0] - 2*c[1]*dt + c[2]*t2

	return z0, z1, z2
}

func validInterval(dt float64) bool {
	return dt > 0 && !math.IsNaN(dt) && !math.IsInf(dt, 0)
}
