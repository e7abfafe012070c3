// Package chart renders training load charts to image files.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fricu/internal/analysis"
)

// ErrNoData is returned when a report has no load series to draw
var ErrNoData = errors.New("no load data to plot")

var (
	fitnessColor = color.RGBA{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF}
	fatigueColor = color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	formColor    = color.RGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}
	stressColor  = color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
)

// Size of the rendered image
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize matches a wide dashboard screenshot
var DefaultSize = Size{Width: 10 * vg.Inch, Height: 4 * vg.Inch}

// NewPMCPlot builds a plot of CTL, ATL and TSB with daily TSS as points
func NewPMCPlot(report *analysis.Report) (*plot.Plot, error) {
	if len(report.Load) == 0 {
		return nil, ErrNoData
	}

	ctl := make(plotter.XYs, len(report.Load))
	atl := make(plotter.XYs, len(report.Load))
	tsb := make(plotter.XYs, len(report.Load))
	var tss plotter.XYs
	for i, p := range report.Load {
		x := float64(p.Date.Unix())
		ctl[i] = plotter.XY{X: x, Y: p.CTL}
		atl[i] = plotter.XY{X: x, Y: p.ATL}
		tsb[i] = plotter.XY{X: x, Y: p.TSB}
		if p.TSS > 0 {
			tss = append(tss, plotter.XY{X: x, Y: p.TSS})
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Performance management (%s days)", report.Window)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Load"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}
	p.Add(plotter.NewGrid())

	for _, series := range []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"Fitness (CTL)", ctl, fitnessColor},
		{"Fatigue (ATL)", atl, fatigueColor},
		{"Form (TSB)", tsb, formColor},
	} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return nil, fmt.Errorf("building %s line: %w", series.name, err)
		}
		line.Color = series.color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	if len(tss) > 0 {
		scatter, err := plotter.NewScatter(tss)
		if err != nil {
			return nil, fmt.Errorf("building TSS points: %w", err)
		}
		scatter.GlyphStyle.Color = stressColor
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("Daily TSS", scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// WritePMC renders the PMC chart as PNG
func WritePMC(w io.Writer, report *analysis.Report, size Size) error {
	p, err := NewPMCPlot(report)
	if err != nil {
		return err
	}

	writerTo, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := writerTo.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// SavePMC renders the PMC chart to a PNG file
func SavePMC(path string, report *analysis.Report, size Size) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := WritePMC(f, report, size); err != nil {
		return err
	}
	return f.Close()
}
