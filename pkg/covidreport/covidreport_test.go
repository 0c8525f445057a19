package covidreport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tealeg/xlsx"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

func samplePoints(n int) []covid.DailyPoint {
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	points := make([]covid.DailyPoint, 0, n)
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		positive := int64(100 + i*7)
		death := int64(i % 5)
		points = append(points, covid.DailyPoint{
			Date:      day.Format("1/2/06"),
			Day:       day,
			Positive:  positive,
			Death:     death,
			Recovered: positive - death,
		})
	}
	return points
}

func TestFormatCount(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1234567:    "1,234,567",
		-5:         "-5",
		-1234:      "-1,234",
		2147483648: "2,147,483,648",
	}
	for n, want := range cases {
		if got := FormatCount(n); got != want {
			t.Fatal(n, got, want)
		}
	}
}

func TestCountersText(t *testing.T) {
	s := covid.Snapshot{
		Country:   "Italy",
		Cases:     1234567,
		Recovered: 1000000,
		Deaths:    34567,
		Active:    200000,
		Updated:   time.Date(2021, time.May, 4, 10, 0, 0, 0, time.UTC),
	}
	text := CountersText(covid.Region("IT"), s)
	for _, want := range []string{"Italy (IT)", "Infected: 1,234,567", "Recovered: 1,000,000", "Deaths: 34,567", "Active: 200,000", "Last Updated: 04.05.2021"} {
		if !strings.Contains(text, want) {
			t.Fatal(text, want)
		}
	}
	if strings.Contains(text, "Today") {
		t.Fatal("today line without today values", text)
	}

	global := CountersText(covid.Global, covid.Snapshot{Cases: 10, TodayCases: 3})
	if !strings.HasPrefix(global, "Global\n") {
		t.Fatal(global)
	}
	if !strings.Contains(global, "Today: +3 cases, +0 deaths") {
		t.Fatal(global)
	}
	if strings.Contains(global, "Last Updated") {
		t.Fatal("zero update time must not be shown", global)
	}
}

func TestCountersOrder(t *testing.T) {
	cs := Counters(covid.Snapshot{Cases: 1, Recovered: 2, Deaths: 3, Active: 4})
	labels := []string{"Infected", "Recovered", "Deaths", "Active"}
	if len(cs) != len(labels) {
		t.Fatal(len(cs))
	}
	for i, c := range cs {
		if c.Label != labels[i] || c.Value != int64(i+1) {
			t.Fatal(i, c)
		}
	}
}

func TestPointLabel(t *testing.T) {
	p := covid.DailyPoint{Date: "13/45/20"}
	if PointLabel(p) != "13/45/20" {
		t.Fatal(PointLabel(p))
	}
	p.Day = time.Date(2020, time.January, 23, 0, 0, 0, 0, time.UTC)
	if PointLabel(p) != "23.01.2020" {
		t.Fatal(PointLabel(p))
	}
}

func TestDailyTable(t *testing.T) {
	points := []covid.DailyPoint{
		{Date: "1/23/20", Day: time.Date(2020, time.January, 23, 0, 0, 0, 0, time.UTC), Positive: 5, Death: 1, Recovered: 4},
		{Date: "1/24/20", Day: time.Date(2020, time.January, 24, 0, 0, 0, 0, time.UTC), Positive: -2, Death: 0, Recovered: -2},
	}
	var out bytes.Buffer
	rendered := DailyTable(&out, points, 0, 3)
	if out.Len() == 0 {
		t.Fatal("output mirror not written")
	}
	for _, want := range []string{"page 1/3", "23.01.2020", "24.01.2020", "-2", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(rendered), strings.ToUpper(want)) {
			t.Fatal(rendered, want)
		}
	}
}

func TestCountriesTableSkipsUnselectable(t *testing.T) {
	list := covid.CountryList{
		{Name: "Italy", ISO2: "IT", ISO3: "ITA"},
		{Name: "Diamond Princess"},
		{Name: "France", ISO2: "FR", ISO3: "FRA"},
	}
	rendered := CountriesTable(nil, list)
	if strings.Contains(rendered, "Diamond") {
		t.Fatal(rendered)
	}
	if !strings.Contains(rendered, "Italy") || !strings.Contains(rendered, "FR") {
		t.Fatal(rendered)
	}
	if !strings.Contains(strings.ToLower(rendered), "2 countries") {
		t.Fatal(rendered)
	}
}

func TestChartKindFor(t *testing.T) {
	if ChartKindFor(covid.Global) != ChartLine {
		t.Fatal("global must be a line chart")
	}
	if ChartKindFor(covid.Region("IT")) != ChartBar {
		t.Fatal("country must be a bar chart")
	}
}

func isPNG(b []byte) bool {
	return bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n"))
}

func TestRenderChart(t *testing.T) {
	points := samplePoints(45)

	var line bytes.Buffer
	if err := RenderChart(&line, covid.Global, points); err != nil {
		t.Fatal(err)
	}
	if !isPNG(line.Bytes()) {
		t.Fatal("line chart is not a png")
	}

	var bar bytes.Buffer
	if err := RenderChart(&bar, covid.Region("IT"), points); err != nil {
		t.Fatal(err)
	}
	if !isPNG(bar.Bytes()) {
		t.Fatal("bar chart is not a png")
	}
}

func TestRenderChartNotEnoughData(t *testing.T) {
	var buf bytes.Buffer
	for _, n := range []int{0, 1} {
		if err := RenderChart(&buf, covid.Global, samplePoints(n)); err != ErrNotEnoughData {
			t.Fatal(n, err)
		}
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written")
	}
}

func TestBarGeometryFits(t *testing.T) {
	for _, n := range []int{1, 2, 10, 3 * covid.DefaultPageSize, 500} {
		w, s := barGeometry(n)
		if w < 1 || s < 1 {
			t.Fatal(n, w, s)
		}
		if n <= 3*covid.DefaultPageSize && n*(w+s) > chartWidth {
			t.Fatal(n, w, s)
		}
	}
}

func TestWriteXlsx(t *testing.T) {
	data := covid.RegionData{
		Region:   covid.Region("IT"),
		Snapshot: covid.Snapshot{Country: "Italy", Cases: 100, Recovered: 80, Deaths: 5, Active: 15},
	}
	points := []covid.DailyPoint{
		{Date: "1/23/20", Day: time.Date(2020, time.January, 23, 0, 0, 0, 0, time.UTC), Positive: 5, Death: 1, Recovered: 4},
		{Date: "1/24/20", Day: time.Date(2020, time.January, 24, 0, 0, 0, 0, time.UTC), Positive: -2, Death: 0, Recovered: -2},
	}

	var buf bytes.Buffer
	if err := WriteXlsx(&buf, data, points); err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	summary, found := f.Sheet[SummarySheet]
	if !found {
		t.Fatal("no summary sheet")
	}
	if summary.Rows[0].Cells[1].Value != "Italy (IT)" {
		t.Fatal(summary.Rows[0].Cells[1].Value)
	}
	if summary.Rows[2].Cells[0].Value != "Infected" || summary.Rows[2].Cells[1].Value != "100" {
		t.Fatal(summary.Rows[2].Cells[0].Value, summary.Rows[2].Cells[1].Value)
	}

	daily, found := f.Sheet[DailySheet]
	if !found {
		t.Fatal("no daily sheet")
	}
	if len(daily.Rows) != len(points)+1 {
		t.Fatal(len(daily.Rows))
	}
	if daily.Rows[0].Cells[1].Value != "Infected" {
		t.Fatal(daily.Rows[0].Cells[1].Value)
	}
	if daily.Rows[2].Cells[0].Value != "24.01.2020" || daily.Rows[2].Cells[1].Value != "-2" {
		t.Fatal(daily.Rows[2].Cells[0].Value, daily.Rows[2].Cells[1].Value)
	}
}

func flatPoints(n int, v int64) []covid.DailyPoint {
	points := samplePoints(n)
	for i := range points {
		points[i].Positive = v
		points[i].Death = 0
		points[i].Recovered = v
	}
	return points
}

func TestRenderChartFlatSeries(t *testing.T) {
	for _, v := range []int64{0, 7} {
		for _, region := range []covid.Region{covid.Global, covid.Region("IT")} {
			var buf bytes.Buffer
			if err := RenderChart(&buf, region, flatPoints(4, v)); err != nil {
				t.Fatal(region, v, err)
			}
			if !isPNG(buf.Bytes()) {
				t.Fatal(region, v, "not a png")
			}
		}
	}
}

func TestBarRange(t *testing.T) {
	cases := []struct {
		values   []float64
		min, max float64
	}{
		{nil, 0, 1},
		{[]float64{0, 0, 0}, 0, 1},
		{[]float64{5, 5}, 0, 5},
		{[]float64{-3, -3}, -3, 0},
		{[]float64{-2, 10, 4}, -2, 10},
	}
	for _, c := range cases {
		bars := make([]chart.Value, 0, len(c.values))
		for _, v := range c.values {
			bars = append(bars, chart.Value{Value: v})
		}
		r := barRange(bars)
		if r.Min != c.min || r.Max != c.max {
			t.Fatal(c.values, r.Min, r.Max)
		}
	}
}
