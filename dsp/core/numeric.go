package core

import "math"

// Clamp limits value to the inclusive range [min, max].
// NaN is passed through unchanged; callers that cannot tolerate it should
// check with [IsFinite] first.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FiniteOr returns x when it is finite and fallback otherwise.
func FiniteOr(x, fallback float64) float64 {
	if IsFinite(x) {
		return x
	}

	return fallback
}

// FlushDenormals converts tiny denormal-like values to exact zero. Filter
// histories pass through it so that a decaying response ends at zero
// instead of lingering in the slow subnormal range.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}
