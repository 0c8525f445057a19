package covidbot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/ilyalavrinov/covidboard/pkg/diseasesh"
)

func TestSplitLines(t *testing.T) {
	text := "aaaa\nbbbb\ncccc\ndd\n"
	chunks := splitLines(text, 10)
	want := []string{"aaaa\nbbbb", "cccc\ndd"}
	if len(chunks) != len(want) {
		t.Fatal(chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatal(i, chunks[i], want[i])
		}
	}

	long := strings.Repeat("x", 25)
	chunks = splitLines("a\n"+long+"\nb", 10)
	if len(chunks) != 3 || chunks[1] != long {
		t.Fatal(chunks)
	}

	if chunks := splitLines("", 10); len(chunks) != 0 {
		t.Fatal(chunks)
	}
}

func TestStatusText(t *testing.T) {
	it := covid.Region("IT")
	cases := []struct {
		st   dashboard.State
		want string
	}{
		{dashboard.State{}, "Select a region with /covid first"},
		{dashboard.State{Status: dashboard.StatusLoading, Region: covid.Global}, "⏳ Loading data for Global..."},
		{dashboard.State{Status: dashboard.StatusFailed, Region: it, Err: &diseasesh.FetchError{Endpoint: "/countries/IT", StatusCode: 404, Err: diseasesh.ErrNotFound}}, "❌ No data for IT"},
		{dashboard.State{Status: dashboard.StatusFailed, Region: it, Err: covid.ErrMismatchedDates}, "❌ Data for IT is inconsistent, try again later"},
		{dashboard.State{Status: dashboard.StatusFailed, Region: it, Err: errors.New("boom")}, "❌ Could not load data for IT: boom"},
		{dashboard.State{Status: dashboard.StatusReady, Region: it}, ""},
	}
	for _, c := range cases {
		if got := statusText(c.st); got != c.want {
			t.Fatal(got, c.want)
		}
	}
}

func TestCountersMarkdownEscapes(t *testing.T) {
	s := covid.Snapshot{
		Country:    "Korea, Rep.",
		Cases:      1000,
		TodayCases: 12,
		Updated:    time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	text := countersMarkdown(covid.Region("KR"), s)
	for _, want := range []string{
		"*Korea, Rep\\. \\(KR\\)*",
		"Infected: *1,000*",
		"Today: \\+12 cases, \\+0 deaths",
		"_Last Updated: 01\\.06\\.2022_",
	} {
		if !strings.Contains(text, want) {
			t.Fatal(text, want)
		}
	}
}
