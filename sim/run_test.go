package sim

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-apdob/dsp/observer"
	"github.com/cwbudde/algo-apdob/internal/testutil"
	"github.com/cwbudde/algo-apdob/measure/harmonics"
	"github.com/cwbudde/algo-apdob/measure/settling"
)

// shortScenario steps the fundamental at 3 s and ends at 6 s.
func shortScenario() Scenario {
	sc := DefaultScenario()
	sc.Duration = 6
	sc.Disturbance.Schedule = []Step{{At: 0, Omega: 100}, {At: 3, Omega: 110}}
	return sc
}

func TestRunTracksFrequencyStep(t *testing.T) {
	var lines []ReportLine
	res, err := Run(context.Background(), shortScenario(), WithReport(func(l ReportLine) {
		lines = append(lines, l)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if res.Ticks != 60000 || res.Trace.Len() != 6000 {
		t.Fatalf("ticks %d, trace length %d", res.Ticks, res.Trace.Len())
	}
	if len(lines) != 6 || len(res.Reports) != 6 {
		t.Fatalf("got %d report callbacks, %d reports", len(lines), len(res.Reports))
	}
	for i, l := range lines {
		if l.Second != i+1 || l != res.Reports[i] {
			t.Fatalf("report %d: %+v", i, l)
		}
	}
	if lines[1].Omega != 100 || lines[5].Omega != 110 {
		t.Fatalf("reported fundamentals %v, %v", lines[1].Omega, lines[5].Omega)
	}

	tr := res.Trace
	testutil.RequireFinite(t, tr.Estimate)
	testutil.RequireFinite(t, tr.Disturbance)
	for i, tm := range tr.Time {
		switch {
		case tm >= 1.5 && tm < 3:
			testutil.RequireWithin(t, "estimate before step", tr.Estimate[i], 100, 2)
		case tm >= 5:
			testutil.RequireWithin(t, "estimate after step", tr.Estimate[i], 110, 2)
		}
	}

	sums := Summarize(res, 2)
	if len(sums) != 2 {
		t.Fatalf("got %d summaries", len(sums))
	}
	for _, s := range sums {
		if !s.Settled {
			t.Fatalf("step %+v did not settle: %+v", s.Step, s.Result)
		}
	}
	if st := sums[1].SettlingTime - 3; st > 1.5 {
		t.Fatalf("settled %.3f s after the step, want < 1.5 s", st)
	}
	if sums[0].End != 3 {
		t.Fatalf("first segment ends at %v, want 3", sums[0].End)
	}
	if sums[1].ControlRMS <= 0 || sums[1].ControlRMS > 50e-6 {
		t.Fatalf("control RMS %v m", sums[1].ControlRMS)
	}
	if r := sums[1].Residual; len(r.Amplitudes) != ResidualHarmonics || r.Amplitudes[0] > 20e-6 {
		t.Fatalf("residual harmonics %+v", r)
	}
}

func TestRunCompensationReducesControlError(t *testing.T) {
	tail := func(disable bool) (float64, harmonics.Result) {
		sc := shortScenario()
		sc.DisableCompensation = disable
		res, err := Run(context.Background(), sc)
		if err != nil {
			t.Fatal(err)
		}
		tr := res.Trace
		rms := settling.RMS(settling.Window(tr.Time, tr.ControlError, 5, 7))
		h, err := harmonics.Analyze(settling.Window(tr.Time, tr.ControlError, 4, 7), tr.Interval, 110, 3)
		if err != nil {
			t.Fatal(err)
		}
		return rms, h
	}

	with, hWith := tail(false)
	without, hWithout := tail(true)
	if !(with < 0.25*without) {
		t.Fatalf("RMS error with compensation %v m, without %v m", with, without)
	}

	// The uncompensated error is dominated by the fundamental.
	if hWithout.Amplitudes[0] < 100e-6 {
		t.Fatalf("uncompensated fundamental %v m", hWithout.Amplitudes[0])
	}
	if !(hWith.Amplitudes[0] < 0.1*hWithout.Amplitudes[0]) {
		t.Fatalf("fundamental with compensation %v m, without %v m",
			hWith.Amplitudes[0], hWithout.Amplitudes[0])
	}
}

func TestRunReferenceScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("30 s closed-loop simulation")
	}

	res, err := Run(context.Background(), DefaultScenario())
	if err != nil {
		t.Fatal(err)
	}

	tr := res.Trace
	for i, tm := range tr.Time {
		switch {
		case tm >= 5 && tm < 10:
			testutil.RequireWithin(t, "estimate at 100 rad/s", tr.Estimate[i], 100, 2)
		case tm >= 12:
			testutil.RequireWithin(t, "estimate at 110 rad/s", tr.Estimate[i], 110, 2)
		}
		if tm >= 20 && math.Abs(tr.ControlError[i]) > 100e-6 {
			t.Fatalf("t=%.4f: control error %v m", tm, tr.ControlError[i])
		}
	}

	for _, s := range Summarize(res, 2) {
		if !s.Settled || s.SettlingTime-s.Step.At > 2 {
			t.Fatalf("step %+v: %+v", s.Step, s.Result)
		}
	}
}

func TestRunRecordEvery(t *testing.T) {
	sc := DefaultScenario()
	sc.Duration = 0.5

	res, err := Run(context.Background(), sc, WithRecordEvery(100))
	if err != nil {
		t.Fatal(err)
	}
	if res.Trace.Len() != 50 {
		t.Fatalf("trace length %d, want 50", res.Trace.Len())
	}
	if got := res.Trace.Time[0]; math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("first sample at %v", got)
	}
	if got := res.Trace.Interval; math.Abs(got-0.01) > 1e-15 {
		t.Fatalf("Interval = %v, want 0.01", got)
	}
	if len(res.Reports) != 0 {
		t.Fatalf("got %d reports in half a second", len(res.Reports))
	}

	res, err = Run(context.Background(), sc, WithRecordEvery(0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Trace.Len() != 0 || Summarize(res, 2) != nil {
		t.Fatal("disabled trace recorded samples")
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, DefaultScenario()); !errors.Is(err, context.Canceled) {
		t.Fatalf("pre-cancelled run: %v", err)
	}

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	var seconds int
	_, err := Run(ctx, DefaultScenario(), WithReport(func(ReportLine) {
		seconds++
		cancel()
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled run: %v", err)
	}
	if seconds != 1 {
		t.Fatalf("ran %d seconds after cancel", seconds)
	}
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	sc := DefaultScenario()
	sc.Oversampling = 0
	if _, err := Run(context.Background(), sc); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunCountsRangeErrors(t *testing.T) {
	sc := DefaultScenario()
	sc.Duration = 0.2
	sc.Observer.MaxDelayTime = 0.01
	sc.Observer.DelayPolicy = observer.DelayError

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	res, err := Run(context.Background(), sc, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if res.RangeErrors != res.Ticks {
		t.Fatalf("RangeErrors = %d, want %d", res.RangeErrors, res.Ticks)
	}

	out := buf.String()
	if strings.Count(out, "delay count out of range") != 1 {
		t.Fatalf("log output:\n%s", out)
	}
	for _, msg := range []string{"simulation start", "simulation done"} {
		if !strings.Contains(out, msg) {
			t.Fatalf("log missing %q:\n%s", msg, out)
		}
	}
}

func BenchmarkRunOneSecond(b *testing.B) {
	sc := DefaultScenario()
	sc.Duration = 1

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Run(context.Background(), sc, WithRecordEvery(0)); err != nil {
			b.Fatal(err)
		}
	}
}
