package render

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"diffuse/internal/diffusion"
)

// ErrTooFewSamples is returned when a history is too short to plot.
var ErrTooFewSamples = errors.New("history chart needs at least two samples")

// WriteHistoryChart renders the peak value and spread of a run as a PNG
// line chart.
func WriteHistoryChart(w io.Writer, title string, h *diffusion.History) error {
	if h == nil || h.Len() < 2 {
		return ErrTooFewSamples
	}
	steps := make([]float64, h.Len())
	peak := make([]float64, h.Len())
	spread := make([]float64, h.Len())
	for i, s := range h.Samples {
		steps[i] = float64(s.Step)
		peak[i] = s.Max
		spread[i] = s.Spread
	}
	if steps[0] == steps[len(steps)-1] {
		return ErrTooFewSamples
	}

	graph := chart.Chart{
		Title: title,
		XAxis: chart.XAxis{Name: "step"},
		YAxis: chart.YAxis{
			Name:  "spread (cells^2)",
			Range: paddedRange(spread),
		},
		YAxisSecondary: chart.YAxis{
			Name:  "peak",
			Range: paddedRange(peak),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "spread",
				XValues: steps,
				YValues: spread,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "peak",
				YAxis:   chart.YAxisSecondary,
				XValues: steps,
				YValues: peak,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// paddedRange spans values with a little headroom and never collapses to a
// zero-width range, which go-chart refuses to draw.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
