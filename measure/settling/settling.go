package settling

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result holds the convergence metrics of one trace.
type Result struct {
	// Settled reports whether the trace ends inside the band.
	Settled bool
	// SettlingTime is the time of the first sample after which the trace
	// stays inside the band. NaN if the trace never settles.
	SettlingTime float64
	// Mean and StdDev describe the settled tail.
	Mean   float64
	StdDev float64
	// RMSError is the root-mean-square deviation from the target over the
	// settled tail.
	RMSError float64
	// MaxDeviation is the largest |value-target| at or after the analysis
	// start.
	MaxDeviation float64
	// Samples is the length of the settled tail.
	Samples int
}

// Analyze evaluates values (sampled at ascending times) against target with
// an absolute tolerance tol, ignoring samples before from. Mismatched or
// empty input yields a zero Result.
func Analyze(times, values []float64, target, tol, from float64) Result {
	if len(times) != len(values) || len(values) == 0 || !(tol >= 0) {
		return Result{}
	}

	start := sort.SearchFloat64s(times, from)
	if start == len(values) {
		return Result{}
	}

	res := Result{SettlingTime: math.NaN()}

	settle := len(values)
	for i := len(values) - 1; i >= start; i-- {
		if !(math.Abs(values[i]-target) <= tol) {
			break
		}
		settle = i
	}

	for _, v := range values[start:] {
		dev := math.Abs(v - target)
		if math.IsNaN(dev) {
			dev = math.Inf(1)
		}
		res.MaxDeviation = math.Max(res.MaxDeviation, dev)
	}

	if settle == len(values) {
		return res
	}

	tail := values[settle:]
	res.Settled = true
	res.SettlingTime = times[settle]
	res.Samples = len(tail)
	res.Mean, res.StdDev = stat.MeanStdDev(tail, nil)
	if len(tail) == 1 {
		res.StdDev = 0
	}

	dev := make([]float64, len(tail))
	for i, v := range tail {
		dev[i] = v - target
	}
	res.RMSError = RMS(dev)

	return res
}

// RMS returns the root-mean-square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	return math.Sqrt(floats.Sum(sq) / float64(len(x)))
}

// Window returns the values whose times fall in [from, to). times must be
// ascending and as long as values.
func Window(times, values []float64, from, to float64) []float64 {
	if len(times) != len(values) {
		return nil
	}

	lo := sort.SearchFloat64s(times, from)
	hi := sort.SearchFloat64s(times, to)
	if hi < lo {
		return nil
	}

	return values[lo:hi]
}
