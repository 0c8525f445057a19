package covidreport

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

type ChartKind int

const (
	ChartLine ChartKind = iota
	ChartBar
)

func (k ChartKind) String() string {
	if k == ChartBar {
		return "bar"
	}
	return "line"
}

const (
	LineChartTitle = "Daily COVID-19 Cases: Infected, Deaths, and Recovered"

	chartWidth  = 1280
	chartHeight = 720
)

var ErrNotEnoughData = errors.New("not enough daily points to draw a chart")

// ChartKindFor picks a line chart for the world and a bar chart for a country.
func ChartKindFor(region covid.Region) ChartKind {
	if region.IsGlobal() {
		return ChartLine
	}
	return ChartBar
}

// RenderChart draws the daily points of a region as PNG.
func RenderChart(w io.Writer, region covid.Region, points []covid.DailyPoint) error {
	if len(points) < 2 {
		return ErrNotEnoughData
	}
	kind := ChartKindFor(region)
	logger.Debugw("rendering chart", "region", region, "kind", kind, "points", len(points))
	if kind == ChartLine {
		return renderLine(w, points)
	}
	return renderBar(w, region, points)
}

func renderLine(w io.Writer, points []covid.DailyPoint) error {
	xs := make([]float64, len(points))
	positive := make([]float64, len(points))
	death := make([]float64, len(points))
	recovered := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		positive[i] = float64(p.Positive)
		death[i] = float64(p.Death)
		recovered[i] = float64(p.Recovered)
	}

	graph := chart.Chart{
		Title:  LineChartTitle,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: indexLabels(points),
		},
		YAxis: chart.YAxis{
			ValueFormatter: countLabel,
		},
		Series: []chart.Series{
			lineSeries("Infected", xs, positive, drawing.ColorBlue),
			lineSeries("Deaths", xs, death, drawing.ColorRed),
			lineSeries("Recovered", xs, recovered, drawing.ColorGreen),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if lo, hi := bounds(positive, death, recovered); lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	return nil
}

func lineSeries(name string, xs, ys []float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			FillColor:   color.WithAlpha(40),
			StrokeWidth: 2,
		},
	}
}

// renderBar draws the last page of days as colored triplets of bars:
// infected, deaths and recovered of one day next to each other.
func renderBar(w io.Writer, region covid.Region, points []covid.DailyPoint) error {
	last, _ := covid.LastPage(points, covid.DefaultPageSize)
	bars := make([]chart.Value, 0, 3*len(last))
	for _, p := range last {
		bars = append(bars,
			bar(shortLabel(p), p.Positive, drawing.ColorBlue),
			bar("", p.Death, drawing.ColorRed),
			bar("", p.Recovered, drawing.ColorGreen),
		)
	}

	barWidth, spacing := barGeometry(len(bars))
	graph := chart.BarChart{
		Title:  fmt.Sprintf("%s: %s", LineChartTitle, region),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: chart.YAxis{
			ValueFormatter: countLabel,
			Range:          barRange(bars),
		},
		UseBaseValue: true,
		BaseValue:    0,
		BarWidth:     barWidth,
		BarSpacing:   spacing,
		Bars:         bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	return nil
}

func bounds(series ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, ys := range series {
		for _, y := range ys {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	return lo, hi
}

func bar(label string, v int64, color drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: float64(v),
		Style: chart.Style{
			FillColor:   color.WithAlpha(160),
			StrokeColor: color,
			StrokeWidth: 1,
		},
	}
}

// barRange always contains the zero base line and is never empty: go-chart
// refuses to draw bars of equal values otherwise.
func barRange(bars []chart.Value) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func barGeometry(n int) (int, int) {
	if n == 0 {
		return 1, 1
	}
	slot := (chartWidth - 160) / n
	width := slot * 2 / 3
	if width < 1 {
		width = 1
	}
	spacing := slot - width
	if spacing < 1 {
		spacing = 1
	}
	return width, spacing
}

func shortLabel(p covid.DailyPoint) string {
	if p.Day.IsZero() {
		return p.Date
	}
	return p.Day.Format("02.01")
}

func indexLabels(points []covid.DailyPoint) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		i := int(math.Round(f))
		if i < 0 || i >= len(points) {
			return ""
		}
		return PointLabel(points[i])
	}
}

func countLabel(v interface{}) string {
	if f, ok := v.(float64); ok {
		return FormatCount(int64(math.Round(f)))
	}
	return ""
}
