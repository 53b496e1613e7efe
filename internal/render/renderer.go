// Package render draws indicator results as PNG charts.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/internal/indicators"
	"github.com/LNshuti/energy/pkg/config"
	"github.com/LNshuti/energy/pkg/logger"
)

// png output is rasterized at 96 dpi
const pixelsPerInch = 96

var (
	bandFill = color.NRGBA{R: 128, G: 128, B: 128, A: 26}
	guideRed = color.RGBA{R: 200, A: 255}
	guideGrn = color.RGBA{G: 150, A: 255}
)

// PlotRenderer rasterizes indicator results with gonum/plot
// ⭐ SSOT: chart layout (title, legend, axes) lives here only
type PlotRenderer struct {
	width  vg.Length
	height vg.Length
	logger *logger.Logger
}

// NewPlotRenderer creates a renderer producing images of the configured pixel size
func NewPlotRenderer(cfg config.ChartConfig, log *logger.Logger) *PlotRenderer {
	return &PlotRenderer{
		width:  vg.Length(cfg.WidthPx) * vg.Inch / pixelsPerInch,
		height: vg.Length(cfg.HeightPx) * vg.Inch / pixelsPerInch,
		logger: log.WithField("module", "render"),
	}
}

// Render draws every line of the result against its dates
func (r *PlotRenderer) Render(result *contracts.IndicatorResult, title, subtitle string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render %q: nil result", title)
	}

	p := plot.New()
	p.Title.Text = title + "\n" + subtitle
	p.X.Label.Text = "Date"
	p.Y.Label.Text = result.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	xs := make([]float64, len(result.Dates))
	for i, d := range result.Dates {
		xs[i] = float64(d.Unix())
	}

	if err := addBand(p, result, xs); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}

	for i, l := range result.Lines {
		if len(l.Values) != len(xs) {
			return nil, fmt.Errorf("render %q: line %s has %d points for %d dates", title, l.Name, len(l.Values), len(xs))
		}
		if err := addLine(p, l, xs, i); err != nil {
			return nil, fmt.Errorf("render %q: %w", title, err)
		}
	}

	for i, g := range result.Guides {
		addGuide(p, g, i)
	}

	w, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render %q: encode png: %w", title, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"title": title,
		"bytes": buf.Len(),
	}).Debug("Rendered chart")

	return buf.Bytes(), nil
}

// addLine draws one sub-series, broken at missing points
func addLine(p *plot.Plot, l contracts.Line, xs []float64, idx int) error {
	style := plotutil.Color(idx)
	first := true

	for _, run := range segments(l.Values) {
		pts := make(plotter.XYs, 0, run.end-run.start)
		for i := run.start; i < run.end; i++ {
			pts = append(pts, plotter.XY{X: xs[i], Y: l.Values[i]})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line %s: %w", l.Name, err)
		}
		line.Color = style
		line.Width = vg.Points(1.2)
		p.Add(line)

		if first {
			p.Legend.Add(l.Name, line)
			first = false
		}
	}
	return nil
}

// addBand shades the area between Upper and Lower when both are present
func addBand(p *plot.Plot, result *contracts.IndicatorResult, xs []float64) error {
	upper, okU := result.Line(indicators.LineUpper)
	lower, okL := result.Line(indicators.LineLower)
	if !okU || !okL || len(upper) != len(xs) || len(lower) != len(xs) {
		return nil
	}

	both := make([]float64, len(xs))
	for i := range both {
		both[i] = upper[i] + lower[i]
	}

	for _, run := range segments(both) {
		if run.end-run.start < 2 {
			continue
		}
		ring := make(plotter.XYs, 0, 2*(run.end-run.start))
		for i := run.start; i < run.end; i++ {
			ring = append(ring, plotter.XY{X: xs[i], Y: upper[i]})
		}
		for i := run.end - 1; i >= run.start; i-- {
			ring = append(ring, plotter.XY{X: xs[i], Y: lower[i]})
		}

		poly, err := plotter.NewPolygon(ring)
		if err != nil {
			return fmt.Errorf("band: %w", err)
		}
		poly.Color = bandFill
		poly.LineStyle.Width = 0
		p.Add(poly)
	}
	return nil
}

func addGuide(p *plot.Plot, g contracts.Guide, idx int) {
	level := g.Level
	f := plotter.NewFunction(func(float64) float64 { return level })
	f.Color = guideRed
	if idx%2 == 1 {
		f.Color = guideGrn
	}
	f.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	f.Width = vg.Points(1)
	p.Add(f)
	p.Legend.Add(g.Name, f)

	// keep the guide level inside the visible range
	p.Y.Min = math.Min(p.Y.Min, level)
	p.Y.Max = math.Max(p.Y.Max, level)
}

type span struct{ start, end int }

// segments returns the maximal runs of non-missing values
func segments(values []float64) []span {
	var out []span
	start := -1
	for i, v := range values {
		missing := math.IsNaN(v) || math.IsInf(v, 0)
		switch {
		case !missing && start < 0:
			start = i
		case missing && start >= 0:
			out = append(out, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(values)})
	}
	return out
}
