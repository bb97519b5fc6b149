package harmonics

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-apdob/internal/testutil"
)

func TestNewGoertzelRejectsInvalid(t *testing.T) {
	for _, tc := range []struct{ omega, dt float64 }{
		{100, 0},
		{100, math.NaN()},
		{-1, 1e-3},
		{math.NaN(), 1e-3},
		{4000, 1e-3},
	} {
		if _, err := NewGoertzel(tc.omega, tc.dt); err == nil {
			t.Errorf("NewGoertzel(%v, %v): expected error", tc.omega, tc.dt)
		}
	}
}

func TestGoertzelMatchesFFTBin(t *testing.T) {
	const (
		n   = 1024
		dt  = 1e-3
		bin = 37
	)
	in := testutil.DeterministicNoise(7, 1, n)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		t.Fatal(err)
	}
	src := make([]complex128, n)
	for i, x := range in {
		src[i] = complex(x, 0)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, src); err != nil {
		t.Fatal(err)
	}

	g, err := NewGoertzel(2*math.Pi*bin/(n*dt), dt)
	if err != nil {
		t.Fatal(err)
	}
	g.ProcessBlock(in[:300])
	for _, x := range in[300:] {
		g.ProcessSample(x)
	}

	want := cmplx.Abs(out[bin])
	testutil.RequireWithin(t, "magnitude", math.Sqrt(g.Power()), want, 1e-9*want)
	if g.Samples() != n {
		t.Fatalf("Samples = %d, want %d", g.Samples(), n)
	}

	g.Reset()
	if g.Power() != 0 || g.Amplitude() != 0 || g.Samples() != 0 {
		t.Fatal("Reset left state behind")
	}
}

func TestGoertzelDC(t *testing.T) {
	g, err := NewGoertzel(0, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	for range 500 {
		g.ProcessSample(-0.75)
	}
	testutil.RequireWithin(t, "mean", g.Amplitude(), 0.75, 1e-12)
}

func TestAnalyze(t *testing.T) {
	const (
		omega = 110.0
		dt    = 1e-3
	)
	signal := make([]float64, 2000)
	for i := range signal {
		tm := float64(i) * dt
		signal[i] = 3*math.Sin(omega*tm) +
			0.5*math.Sin(2*omega*tm+0.3) +
			0.2*math.Cos(5*omega*tm)
	}

	res, err := Analyze(signal, dt, omega, 6)
	if err != nil {
		t.Fatal(err)
	}

	// 35 whole periods of 57.12 samples.
	if res.Samples != 1999 {
		t.Fatalf("Samples = %d, want 1999", res.Samples)
	}
	if len(res.Amplitudes) != 6 {
		t.Fatalf("got %d amplitudes, want 6", len(res.Amplitudes))
	}

	want := []float64{3, 0.5, 0, 0, 0.2, 0}
	for k, w := range want {
		testutil.RequireWithin(t, "amplitude", res.Amplitudes[k], w, 0.01)
	}
	testutil.RequireWithin(t, "thd", res.THD, math.Sqrt(0.25+0.04)/3, 0.005)
}

func TestAnalyzeOmitsHarmonicsAboveNyquist(t *testing.T) {
	const dt = 1e-3
	signal := testutil.AngularSine(1000, dt, 1, 1000)

	res, err := Analyze(signal, dt, 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	// pi/dt = 3141.6 rad/s admits three harmonics of 1000 rad/s.
	if len(res.Amplitudes) != 3 {
		t.Fatalf("got %d amplitudes, want 3", len(res.Amplitudes))
	}
	testutil.RequireWithin(t, "fundamental", res.Amplitudes[0], 1, 0.01)
}

func TestAnalyzeErrors(t *testing.T) {
	signal := testutil.AngularSine(100, 1e-3, 1, 100)

	// 100 samples hold less than one 628-sample period of 10 rad/s.
	if _, err := Analyze(signal, 1e-3, 10, 3); !errors.Is(err, ErrShortSignal) {
		t.Fatalf("short signal: got %v, want ErrShortSignal", err)
	}
	if _, err := Analyze(signal, 1e-3, 0, 3); err == nil {
		t.Fatal("zero fundamental: expected error")
	}
	if _, err := Analyze(signal, 1e-3, 100, 0); err == nil {
		t.Fatal("zero count: expected error")
	}
	if _, err := Analyze(signal, 0, 100, 3); err == nil {
		t.Fatal("zero interval: expected error")
	}
	if _, err := Analyze(nil, 1e-3, 100, 3); !errors.Is(err, ErrShortSignal) {
		t.Fatalf("empty signal: got %v", err)
	}
}

func TestTHDZeroFundamental(t *testing.T) {
	if got := thd([]float64{0, 1}); got != 0 {
		t.Fatalf("thd = %v, want 0", got)
	}
	if got := thd(nil); got != 0 {
		t.Fatalf("thd(nil) = %v, want 0", got)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	signal := testutil.AngularSine(100, 1e-4, 1, 20000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Analyze(signal, 1e-4, 100, 5)
	}
}
