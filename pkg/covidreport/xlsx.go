package covidreport

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

const (
	SummarySheet = "summary"
	DailySheet   = "daily"
)

// WriteXlsx exports the counters and the whole daily series into a workbook.
// Negative daily values are highlighted since they come from upstream corrections.
func WriteXlsx(w io.Writer, data covid.RegionData, points []covid.DailyPoint) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return err
	}
	addStringRow(summary, "Region", Title(data.Region, data.Snapshot))
	addStringRow(summary, "Last Updated", FormatDate(data.Snapshot.Updated))
	for _, c := range Counters(data.Snapshot) {
		addIntRow(summary, c.Label, c.Value)
	}
	addIntRow(summary, "Today cases", data.Snapshot.TodayCases)
	addIntRow(summary, "Today deaths", data.Snapshot.TodayDeaths)
	addIntRow(summary, "Critical", data.Snapshot.Critical)
	addIntRow(summary, "Tests", data.Snapshot.Tests)
	addIntRow(summary, "Population", data.Snapshot.Population)

	daily, err := f.AddSheet(DailySheet)
	if err != nil {
		return err
	}
	header := daily.AddRow()
	for _, title := range []string{"Date", "Infected", "Deaths", "Recovered"} {
		header.AddCell().SetString(title)
	}

	negative := xlsx.NewStyle()
	negative.Font.Color = xlsx.RGB_Dark_Red
	negative.ApplyFont = true

	for _, p := range points {
		row := daily.AddRow()
		row.AddCell().SetString(PointLabel(p))
		for _, v := range []int64{p.Positive, p.Death, p.Recovered} {
			c := row.AddCell()
			c.SetInt64(v)
			if v < 0 {
				c.SetStyle(negative)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func addStringRow(sh *xlsx.Sheet, name, value string) {
	row := sh.AddRow()
	row.AddCell().SetString(name)
	row.AddCell().SetString(value)
}

func addIntRow(sh *xlsx.Sheet, name string, value int64) {
	row := sh.AddRow()
	row.AddCell().SetString(name)
	row.AddCell().SetInt64(value)
}
