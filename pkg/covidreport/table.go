package covidreport

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

// DailyTable renders one page of daily points with a totals footer.
func DailyTable(out io.Writer, points []covid.DailyPoint, page, pages int) string {
	t := table.NewWriter()
	if out != nil {
		t.SetOutputMirror(out)
	}
	t.SetStyle(table.StyleLight)
	if pages > 0 {
		t.SetTitle(fmt.Sprintf("Daily cases, page %d/%d", page+1, pages))
	}
	t.AppendHeader(table.Row{"Date", "Infected", "Deaths", "Recovered"})

	var positive, death, recovered int64
	rows := make([]table.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, table.Row{PointLabel(p), FormatCount(p.Positive), FormatCount(p.Death), FormatCount(p.Recovered)})
		positive += p.Positive
		death += p.Death
		recovered += p.Recovered
	}
	t.AppendRows(rows)
	t.AppendFooter(table.Row{"Total", FormatCount(positive), FormatCount(death), FormatCount(recovered)})
	return t.Render()
}

// CountriesTable lists the countries that can be selected as a region.
func CountriesTable(out io.Writer, list covid.CountryList) string {
	t := table.NewWriter()
	if out != nil {
		t.SetOutputMirror(out)
	}
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Country"})
	selectable := list.Selectable()
	rows := make([]table.Row, 0, len(selectable))
	for _, c := range selectable {
		rows = append(rows, table.Row{c.ISO2, c.Name})
	}
	t.AppendRows(rows)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d countries", len(selectable))})
	return t.Render()
}

// SnapshotTable is the terminal version of the counter cards.
func SnapshotTable(out io.Writer, region covid.Region, s covid.Snapshot) string {
	t := table.NewWriter()
	if out != nil {
		t.SetOutputMirror(out)
	}
	t.SetStyle(table.StyleLight)
	t.SetTitle(Title(region, s))
	rows := make([]table.Row, 0, 4)
	for _, c := range Counters(s) {
		rows = append(rows, table.Row{c.Label, FormatCount(c.Value), c.Description})
	}
	t.AppendRows(rows)
	if updated := FormatDate(s.Updated); updated != "" {
		t.AppendFooter(table.Row{"Last Updated", updated, ""})
	}
	return t.Render()
}
