// Package charts renders yearly trend data as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"gastos/internal/report"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// RenderTrend draws the monthly spend line for a year, with the budget line
// overlaid where one is set. Months without a budget leave a gap rather than
// dropping to zero. Returns nil bytes when the year has no data at all.
func (g *Generator) RenderTrend(trend report.Trend) ([]byte, error) {
	if !trend.HasData() {
		return nil, nil
	}

	xValues := make([]time.Time, 12)
	spendValues := make([]float64, 12)
	for i := 0; i < 12; i++ {
		xValues[i] = time.Date(trend.Year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		spendValues[i] = float64(trend.Spend[i]) / 100.0
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Gasto",
			XValues: xValues,
			YValues: spendValues,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				StrokeWidth: 2,
			},
		},
	}

	// The budget line may have gaps, so it is split into contiguous runs.
	for _, run := range budgetRuns(trend.Budget) {
		xs := xValues[run.start:run.end]
		ys := run.values
		if run.end-run.start == 1 {
			// A lone month has no second point to draw a line through, so
			// stretch it into a short flat segment.
			start := xValues[run.start]
			xs = []time.Time{start, start.AddDate(0, 0, 14)}
			ys = []float64{run.values[0], run.values[0]}
		}
		series = append(series, chart.TimeSeries{
			Name:    "Presupuesto",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor:     chart.ColorRed,
				StrokeWidth:     2,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}

	return buffer.Bytes(), nil
}

type budgetRun struct {
	start, end int // month indices, end exclusive
	values     []float64
}

// budgetRuns splits the sparse budget line into contiguous segments.
// go-chart cannot represent holes inside a single series.
func budgetRuns(budget [12]*int64) []budgetRun {
	var runs []budgetRun
	i := 0
	for i < 12 {
		if budget[i] == nil {
			i++
			continue
		}
		run := budgetRun{start: i}
		for i < 12 && budget[i] != nil {
			run.values = append(run.values, float64(*budget[i])/100.0)
			i++
		}
		run.end = i
		runs = append(runs, run)
	}
	return runs
}
