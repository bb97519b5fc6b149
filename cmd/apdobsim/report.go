package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-apdob/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAAA"))

	secondStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AAAA")).
			Padding(0, 1)
)

func renderReportLine(l sim.ReportLine) string {
	var sb strings.Builder

	sb.WriteString(secondStyle.Render(fmt.Sprintf("%3d s", l.Second)))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render("fundamental "))
	sb.WriteString(fmt.Sprintf("%8.3f rad/s", l.Omega))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render("estimate "))
	sb.WriteString(fmt.Sprintf("%8.3f rad/s", l.Estimate))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render("control error "))
	sb.WriteString(fmt.Sprintf("%9.3f µm", l.ControlError))

	return sb.String()
}

func renderSummary(sums []sim.StepSummary, tol float64) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Settling (±%.3g rad/s)", tol)))
	for _, s := range sums {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%6.2f s → %7.2f rad/s: ", s.Step.At, s.Step.Omega))
		if !s.Settled {
			sb.WriteString(errorStyle.Render(fmt.Sprintf("not settled (max deviation %.3f rad/s)", s.MaxDeviation)))
			continue
		}
		sb.WriteString(goodStyle.Render(fmt.Sprintf("settled after %.3f s", s.SettlingTime-s.Step.At)))
		sb.WriteString(fmt.Sprintf(", mean %.3f ± %.3f rad/s, control RMS %.3f µm",
			s.Mean, s.StdDev, 1e6*s.ControlRMS))
		if amps := s.Residual.Amplitudes; len(amps) > 0 {
			sb.WriteString("\n")
			sb.WriteString(labelStyle.Render("           residual "))
			for k, a := range amps {
				if k > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(fmt.Sprintf("h%d %.3f µm", k+1, 1e6*a))
			}
		}
	}
	if len(sums) == 0 {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("no trace recorded"))
	}

	return summaryStyle.Render(sb.String())
}
