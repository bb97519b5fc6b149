package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-apdob/control"
	"github.com/cwbudde/algo-apdob/dsp/delay"
	"github.com/cwbudde/algo-apdob/dsp/observer"
)

// cancelCheckTicks is how often Run polls its context.
const cancelCheckTicks = 1000

// ReportLine is the once-per-second status of a run.
type ReportLine struct {
	Second       int
	Omega        float64 // true fundamental (rad/s)
	Estimate     float64 // observer estimate (rad/s)
	ControlError float64 // command minus position (microns)
}

// Trace holds decimated per-tick signals. All slices have the same length.
type Trace struct {
	// Interval is the spacing of the samples (s).
	Interval     float64
	Time         []float64 // s
	Omega        []float64 // true fundamental (rad/s)
	Estimate     []float64 // estimated fundamental (rad/s)
	Disturbance  []float64 // estimated disturbance force
	ControlError []float64 // command minus position (m)
}

// Len returns the number of recorded samples.
func (tr *Trace) Len() int { return len(tr.Time) }

func (tr *Trace) grow(n int) {
	tr.Time = make([]float64, 0, n)
	tr.Omega = make([]float64, 0, n)
	tr.Estimate = make([]float64, 0, n)
	tr.Disturbance = make([]float64, 0, n)
	tr.ControlError = make([]float64, 0, n)
}

func (tr *Trace) append(t, omega, est, dist, ctrlErr float64) {
	tr.Time = append(tr.Time, t)
	tr.Omega = append(tr.Omega, omega)
	tr.Estimate = append(tr.Estimate, est)
	tr.Disturbance = append(tr.Disturbance, dist)
	tr.ControlError = append(tr.ControlError, ctrlErr)
}

// Result is the outcome of a completed run.
type Result struct {
	Scenario Scenario
	Trace    Trace
	Reports  []ReportLine
	Ticks    int
	// RangeErrors counts ticks whose delay count had to be clamped. Only
	// counted under the observer's error delay policy.
	RangeErrors int
	Elapsed     time.Duration
}

// loop holds the components of one simulated axis.
type loop struct {
	obs     *observer.Observer
	inverse *control.InverseModel
	pd      *control.PD
	ff      *control.AccelFeedforward
	comp    *control.Compensator
	motor   *control.Motor
}

func newLoop(sc Scenario) (*loop, error) {
	dt := sc.Observer.SampleInterval
	cut := sc.Controller.DerivativeCutoff

	obs, err := observer.New(sc.Observer)
	if err != nil {
		return nil, err
	}
	inverse, err := control.NewInverseModel(sc.Plant.NominalMass, sc.Plant.NominalThrust, cut, dt)
	if err != nil {
		return nil, err
	}
	pd, err := control.NewPD(sc.Controller.Kp, sc.Controller.Kv, cut, dt)
	if err != nil {
		return nil, err
	}
	ff, err := control.NewAccelFeedforward(cut, dt)
	if err != nil {
		return nil, err
	}
	comp, err := control.NewCompensator(sc.Plant.NominalMass, sc.Plant.NominalThrust)
	if err != nil {
		return nil, err
	}
	motor, err := control.NewMotor(sc.Plant.Mass, sc.Plant.Thrust, dt/float64(sc.Oversampling))
	if err != nil {
		return nil, err
	}

	return &loop{obs: obs, inverse: inverse, pd: pd, ff: ff, comp: comp, motor: motor}, nil
}

// Run simulates sc and returns the recorded result. The context is polled
// every 1000 control ticks; on cancellation Run returns the context error.
func Run(ctx context.Context, sc Scenario, opts ...Option) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	cfg := newRunConfig(opts)
	lp, err := newLoop(sc)
	if err != nil {
		return nil, err
	}

	dt := sc.Observer.SampleInterval
	h := dt / float64(sc.Oversampling)
	ticks := int(math.Round(sc.Duration / dt))
	ticksPerSecond := int(math.Round(1 / dt))
	cmdOmega := 2 * math.Pi * sc.Command.Frequency

	res := &Result{Scenario: sc, Ticks: ticks}
	if cfg.recordEvery > 0 {
		res.Trace.grow(ticks/cfg.recordEvery + 1)
		res.Trace.Interval = float64(cfg.recordEvery) * dt
	}

	cfg.logger.Info("simulation start",
		"duration", sc.Duration,
		"ticks", ticks,
		"oversampling", sc.Oversampling,
		"compensation", !sc.DisableCompensation)
	start := time.Now()

	var (
		u, y  float64
		omega float64
	)

	for k := range ticks {
		if k%cancelCheckTicks == 0 {
			if err := ctx.Err(); err != nil {
				cfg.logger.Warn("simulation cancelled", "t", float64(k)*dt)
				return nil, fmt.Errorf("sim: cancelled at t=%.4f s: %w", float64(k)*dt, err)
			}
		}

		tk := float64(k) * dt

		e := lp.inverse.Error(u, y)
		est, err := lp.obs.Update(e)
		if err != nil {
			if !errors.Is(err, delay.ErrDelayRange) {
				return nil, fmt.Errorf("sim: tick %d: %w", k, err)
			}
			if res.RangeErrors == 0 {
				cfg.logger.Warn("delay count out of range", "t", tk, "err", err)
			}
			res.RangeErrors++
		}

		ref := sc.Command.Amplitude * math.Sin(cmdOmega*tk)
		accel := lp.pd.Command(ref, y) + lp.ff.Acceleration(ref)
		dist := est.Disturbance
		if sc.DisableCompensation {
			dist = 0
		}
		u = lp.comp.Input(accel, dist)

		for s := range sc.Oversampling {
			t := tk + float64(s)*h
			omega = sc.Disturbance.Omega(t)
			y = lp.motor.Step(u, sc.Disturbance.Force(omega, t))
		}

		n := k + 1
		if cfg.recordEvery > 0 && n%cfg.recordEvery == 0 {
			res.Trace.append(float64(n)*dt, omega, est.Frequency, est.Disturbance, ref-y)
		}

		if n%ticksPerSecond == 0 {
			line := ReportLine{
				Second:       n / ticksPerSecond,
				Omega:        omega,
				Estimate:     est.Frequency,
				ControlError: 1e6 * (ref - y),
			}
			res.Reports = append(res.Reports, line)
			cfg.logger.Debug("second", "t", line.Second, "omega", line.Omega, "estimate", line.Estimate)
			if cfg.report != nil {
				cfg.report(line)
			}
		}
	}

	res.Elapsed = time.Since(start)
	cfg.logger.Info("simulation done",
		"elapsed", res.Elapsed,
		"final_estimate", lp.obs.Frequency().Estimate(),
		"range_errors", res.RangeErrors)

	return res, nil
}
