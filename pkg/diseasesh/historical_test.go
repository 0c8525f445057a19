package diseasesh

import (
	"errors"
	"testing"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

func TestParseHistoricalKeepsBodyOrder(t *testing.T) {
	// deliberately not sorted
	body := []byte(`{"cases": {"1/3/20": 3, "1/1/20": 1, "1/2/20": 2}, "deaths": {"1/3/20": 0, "1/1/20": 0, "1/2/20": 0}}`)

	h, err := parseHistorical(body, covid.Global)
	if err != nil {
		t.Fatal(err)
	}
	got := h.Cases.Dates()
	want := []string{"1/3/20", "1/1/20", "1/2/20"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatal(got, want)
		}
	}
}

func TestParseHistoricalShapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		region covid.Region
		ok     bool
	}{
		{"global", historicalAllBody, covid.Global, true},
		{"country", historicalItalyBody, "IT", true},
		{"country shape for global", historicalItalyBody, covid.Global, false},
		{"global shape for country", historicalAllBody, "IT", false},
		{"not json", `{"cases": `, covid.Global, false},
		{"array", `[1, 2]`, covid.Global, false},
		{"missing deaths", `{"cases": {"1/1/20": 1}}`, covid.Global, false},
		{"string count", `{"cases": {"1/1/20": "1"}, "deaths": {"1/1/20": 0}}`, covid.Global, false},
		{"bad recovered", `{"cases": {}, "deaths": {}, "recovered": 5}`, covid.Global, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHistorical([]byte(tt.body), tt.region)
			if tt.ok && err != nil {
				t.Fatal(err)
			}
			if !tt.ok && !errors.Is(err, ErrMalformed) {
				t.Fatal(err)
			}
		})
	}
}
