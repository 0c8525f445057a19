package covidbot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/ilyalavrinov/covidboard/pkg/covidreport"
	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
)

// messageLimit stays below the 4096 characters telegram accepts in one message.
const messageLimit = 4000

const helpText = `COVID-19 dashboard

/covid [region] - counters and chart; region is "global" (default), a two-letter country code or a country name
/daily [page] - daily infected, deaths and recovered of the selected region
/countries - countries which can be selected
/export - spreadsheet with the daily series
/watch [interval|off] - resend the counters periodically, e.g. /watch 6h`

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func countersMarkdown(region covid.Region, s covid.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escape(covidreport.Title(region, s)))
	for _, c := range covidreport.Counters(s) {
		fmt.Fprintf(&b, "%s %s: *%s*\n", c.Emoji, escape(c.Label), escape(covidreport.FormatCount(c.Value)))
	}
	if s.TodayCases != 0 || s.TodayDeaths != 0 {
		fmt.Fprintf(&b, "%s\n", escape(fmt.Sprintf("Today: +%s cases, +%s deaths",
			covidreport.FormatCount(s.TodayCases), covidreport.FormatCount(s.TodayDeaths))))
	}
	if updated := covidreport.FormatDate(s.Updated); updated != "" {
		fmt.Fprintf(&b, "_%s_\n", escape("Last Updated: "+updated))
	}
	return b.String()
}

func codeBlock(s string) string {
	return "```\n" + strings.TrimRight(s, "\n") + "\n```"
}

// statusText is the user facing line for a dashboard which has nothing to show.
func statusText(st dashboard.State) string {
	switch st.Status {
	case dashboard.StatusLoading:
		return fmt.Sprintf("⏳ Loading data for %s...", st.Region)
	case dashboard.StatusFailed:
		if errors.Is(st.Err, diseasesh.ErrNotFound) {
			return fmt.Sprintf("❌ No data for %s", st.Region)
		}
		if errors.Is(st.Err, covid.ErrMismatchedDates) {
			return fmt.Sprintf("❌ Data for %s is inconsistent, try again later", st.Region)
		}
		return fmt.Sprintf("❌ Could not load data for %s: %s", st.Region, st.Err)
	case dashboard.StatusIdle:
		return "Select a region with /covid first"
	}
	return ""
}

// staleText warns that the shown data is older than the failed refresh.
func staleText(st dashboard.State) string {
	return fmt.Sprintf("⚠️ Last refresh of %s failed (%s), showing data loaded at %s",
		st.Region, st.Err, st.LoadedAt.Format("02.01.2006 15:04"))
}

// splitLines cuts text into chunks of at most limit bytes at line boundaries.
// A single line longer than limit becomes its own chunk.
func splitLines(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
