package sim

import (
	"io"
	"log/slog"
)

// DefaultRecordEvery is the default trace decimation in control ticks.
const DefaultRecordEvery = 10

// runConfig holds options for Run.
type runConfig struct {
	recordEvery int
	report      func(ReportLine)
	logger      *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithRecordEvery records one trace sample every n control ticks.
// n <= 0 disables the trace.
func WithRecordEvery(n int) Option {
	return func(cfg *runConfig) { cfg.recordEvery = n }
}

// WithReport calls fn at the end of every simulated second.
func WithReport(fn func(ReportLine)) Option {
	return func(cfg *runConfig) { cfg.report = fn }
}

// WithLogger sets the logger for run-level events. Nothing is logged per
// tick. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *runConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

func newRunConfig(opts []Option) runConfig {
	cfg := runConfig{
		recordEvery: DefaultRecordEvery,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}
