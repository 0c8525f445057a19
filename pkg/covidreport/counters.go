package covidreport

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

const dateLayout = "02.01.2006"

type Counter struct {
	Emoji       string
	Label       string
	Description string
	Value       int64
}

// Counters lists the summary cards of a snapshot in display order.
func Counters(s covid.Snapshot) []Counter {
	return []Counter{
		{Emoji: "🌡", Label: "Infected", Description: "Total cases of COVID-19", Value: s.Cases},
		{Emoji: "💚", Label: "Recovered", Description: "Number of recovered cases", Value: s.Recovered},
		{Emoji: "💀", Label: "Deaths", Description: "Total deaths due to COVID-19", Value: s.Deaths},
		{Emoji: "🩺", Label: "Active", Description: "Currently active cases", Value: s.Active},
	}
}

func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatDate renders a day the way the dashboard shows it, "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func PointLabel(p covid.DailyPoint) string {
	if p.Day.IsZero() {
		return p.Date
	}
	return FormatDate(p.Day)
}

// Title names the region: the country name when the snapshot carries one.
func Title(region covid.Region, s covid.Snapshot) string {
	if region.IsGlobal() || s.Country == "" {
		return region.String()
	}
	return fmt.Sprintf("%s (%s)", s.Country, region)
}

// CountersText is the plain text block with all counters.
func CountersText(region covid.Region, s covid.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Title(region, s))
	for _, c := range Counters(s) {
		fmt.Fprintf(&b, "%s %s: %s\n", c.Emoji, c.Label, FormatCount(c.Value))
	}
	if s.TodayCases != 0 || s.TodayDeaths != 0 {
		fmt.Fprintf(&b, "Today: +%s cases, +%s deaths\n", FormatCount(s.TodayCases), FormatCount(s.TodayDeaths))
	}
	if updated := FormatDate(s.Updated); updated != "" {
		fmt.Fprintf(&b, "Last Updated: %s\n", updated)
	}
	return b.String()
}
