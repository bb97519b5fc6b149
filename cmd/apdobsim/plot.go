package main

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-apdob/sim"
)

// writePlot saves the true and estimated fundamental frequency over time as
// a PNG.
func writePlot(path string, tr sim.Trace) error {
	if tr.Len() == 0 {
		return fmt.Errorf("plot: empty trace")
	}

	p := plot.New()
	p.Title.Text = "Fundamental frequency"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "ω (rad/s)"
	p.Legend.Top = true

	series := []struct {
		name  string
		ys    []float64
		color color.Color
		width vg.Length
	}{
		{"true", tr.Omega, color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}, vg.Points(2.5)},
		{"estimate", tr.Estimate, color.RGBA{R: 0xa4, A: 0xff}, vg.Points(1.2)},
	}

	for _, s := range series {
		pts := make(plotter.XYs, tr.Len())
		for i := range pts {
			pts[i].X = tr.Time[i]
			pts[i].Y = s.ys[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot: %s: %w", s.name, err)
		}
		line.LineStyle.Color = s.color
		line.LineStyle.Width = s.width
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	return nil
}
