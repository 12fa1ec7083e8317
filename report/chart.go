package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	chartWidth  = 1024
	chartHeight = 512
	defaultBins = 50
)

// RenderHistogram bins the loss vector uniformly between its minimum and
// maximum and renders the counts as a PNG bar chart. A non-positive bin
// count falls back to the default.
func RenderHistogram(losses []float64, bins int, w io.Writer) error {
	if len(losses) == 0 {
		return errors.New("cannot render a histogram from an empty loss vector")
	}
	if bins <= 0 {
		bins = defaultBins
	}

	sorted := make([]float64, len(losses))
	copy(sorted, losses)
	sort.Float64s(sorted)

	min, max := sorted[0], sorted[len(sorted)-1]

	var bars []chart.Value
	if min == max {
		// Degenerate distribution, e.g. rho = 0 where every scenario loses
		// the same amount. One bar carries everything.
		bars = []chart.Value{{Value: float64(len(sorted)), Label: fmt.Sprintf("%.4g", min)}}
	} else {
		// The upper divider sits one ulp past the maximum so the largest
		// loss lands inside the last bin instead of outside the grid.
		dividers := make([]float64, bins+1)
		floats.Span(dividers, min, math.Nextafter(max, math.Inf(1)))
		counts := stat.Histogram(nil, dividers, sorted, nil)

		labelEvery := len(counts)/8 + 1
		bars = make([]chart.Value, len(counts))
		for i, count := range counts {
			label := ""
			if i%labelEvery == 0 {
				label = fmt.Sprintf("%.3g", (dividers[i]+dividers[i+1])/2)
			}
			bars[i] = chart.Value{Value: count, Label: label}
		}
	}

	maxCount := 0.0
	for _, bar := range bars {
		if bar.Value > maxCount {
			maxCount = bar.Value
		}
	}

	barWidth := (chartWidth - 100) / len(bars)
	if barWidth < 2 {
		barWidth = 2
	}

	graph := chart.BarChart{
		Title:  "portfolio loss distribution",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:   barWidth,
		BarSpacing: 2,
		YAxis: chart.YAxis{
			Name: "scenarios",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxCount * 1.05,
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "render loss histogram")
	}
	return nil
}
