package sim

import (
	"github.com/cwbudde/algo-apdob/measure/harmonics"
	"github.com/cwbudde/algo-apdob/measure/settling"
)

// ResidualHarmonics is the number of disturbance harmonics measured in
// the control error.
const ResidualHarmonics = 3

// StepSummary describes how the frequency estimate converged after one
// schedule step.
type StepSummary struct {
	Step Step
	// End is the time the next step starts, or the end of the trace.
	End float64
	settling.Result
	// ControlRMS is the RMS control error (m) over the step's settled tail.
	ControlRMS float64
	// Residual holds the control error harmonics of the step's fundamental
	// over the settled tail. It is empty when the tail is shorter than one
	// period.
	Residual harmonics.Result
}

// Summarize analyzes the recorded trace once per schedule step, using an
// absolute tolerance tol (rad/s) on the frequency estimate.
func Summarize(res *Result, tol float64) []StepSummary {
	tr := res.Trace
	if tr.Len() == 0 {
		return nil
	}

	schedule := res.Scenario.Disturbance.Schedule
	out := make([]StepSummary, 0, len(schedule))
	last := tr.Time[tr.Len()-1]

	for i, st := range schedule {
		if st.At > last {
			break
		}

		end := last + res.Scenario.Observer.SampleInterval
		if i+1 < len(schedule) {
			end = schedule[i+1].At
		}

		times := settling.Window(tr.Time, tr.Time, st.At, end)
		est := settling.Window(tr.Time, tr.Estimate, st.At, end)
		sum := StepSummary{
			Step:   st,
			End:    end,
			Result: settling.Analyze(times, est, st.Omega, tol, st.At),
		}
		if sum.Settled {
			ctrl := settling.Window(tr.Time, tr.ControlError, sum.SettlingTime, end)
			sum.ControlRMS = settling.RMS(ctrl)
			if r, err := harmonics.Analyze(ctrl, tr.Interval, st.Omega, ResidualHarmonics); err == nil {
				sum.Residual = r
			}
		}

		out = append(out, sum)
	}

	return out
}
