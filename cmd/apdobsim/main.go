// Command apdobsim runs the adaptive periodic-disturbance observer inside a
// simulated position servo and reports how the frequency estimate follows
// the disturbance.
//
// Usage:
//
//	apdobsim [flags]
//
// Examples:
//
//	apdobsim
//	apdobsim --duration 12 --plot estimate.png
//	apdobsim --config scenario.yaml --quiet
//	apdobsim --no-compensation
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-apdob/internal/cpu"
	"github.com/cwbudde/algo-apdob/sim"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Config         string  `short:"c" type:"existingfile" help:"YAML scenario file (defaults to the reference scenario)"`
	Duration       float64 `short:"d" help:"Override the simulated time in seconds"`
	Plot           string  `short:"p" type:"path" help:"Write a PNG plot of the true and estimated frequency"`
	RecordEvery    int     `default:"10" help:"Record one trace sample every N control ticks"`
	Tolerance      float64 `default:"2" help:"Settling band around the true frequency in rad/s"`
	NoCompensation bool    `help:"Run the loop without disturbance compensation"`
	Quiet          bool    `short:"q" help:"Print only the summary"`
	Verbose        bool    `help:"Log run events at debug level"`
	Version        bool    `short:"v" help:"Show version information"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("apdobsim"),
		kong.Description("Adaptive periodic-disturbance observer servo simulation"),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cli, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cli *CLI, stdout, stderr io.Writer) error {
	if cli.Version {
		fmt.Fprintf(stdout, "apdobsim %s\n", version)
		fmt.Fprintf(stdout, "cpu: %s\n", cpu.DetectFeatures())
		return nil
	}

	logger := newLogger(stderr, cli.Quiet, cli.Verbose)

	sc := sim.DefaultScenario()
	if cli.Config != "" {
		loaded, err := sim.LoadScenario(cli.Config)
		if err != nil {
			return err
		}
		sc = loaded
		logger.Info("scenario loaded", "path", cli.Config)
	}
	if cli.Duration > 0 {
		sc.Duration = cli.Duration
	}
	if cli.NoCompensation {
		sc.DisableCompensation = true
	}
	if cli.Plot != "" && cli.RecordEvery <= 0 {
		return fmt.Errorf("--plot needs --record-every > 0")
	}

	opts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithRecordEvery(cli.RecordEvery),
	}
	if !cli.Quiet {
		fmt.Fprintln(stdout, titleStyle.Render("APDOB simulation"))
		opts = append(opts, sim.WithReport(func(l sim.ReportLine) {
			fmt.Fprintln(stdout, renderReportLine(l))
		}))
	}

	res, err := sim.Run(ctx, sc, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, renderSummary(sim.Summarize(res, cli.Tolerance), cli.Tolerance))

	if cli.Plot != "" {
		if err := writePlot(cli.Plot, res.Trace); err != nil {
			return err
		}
		logger.Info("plot written", "path", cli.Plot)
	}

	return nil
}

func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
