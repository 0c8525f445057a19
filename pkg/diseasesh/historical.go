package diseasesh

import (
	"fmt"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/tidwall/gjson"
)

// parseHistorical normalizes both historical payload shapes into one series:
//
//	/historical/all     -> {"cases": {...}, "deaths": {...}, "recovered": {...}}
//	/historical/{iso2}  -> {"country": "...", "timeline": {"cases": {...}, ...}}
//
// Date keys keep the order in which they appear in the body.
func parseHistorical(body []byte, region covid.Region) (covid.HistoricalSeries, error) {
	if !gjson.ValidBytes(body) {
		return covid.HistoricalSeries{}, fmt.Errorf("%w: historical body is not valid json", ErrMalformed)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return covid.HistoricalSeries{}, fmt.Errorf("%w: historical body is not an object", ErrMalformed)
	}

	timeline := root
	nested := root.Get("timeline")
	if region.IsGlobal() {
		if nested.Exists() {
			return covid.HistoricalSeries{}, fmt.Errorf("%w: per-country timeline returned for global request", ErrMalformed)
		}
	} else {
		if !nested.IsObject() {
			return covid.HistoricalSeries{}, fmt.Errorf("%w: no timeline in historical response for %s", ErrMalformed, region)
		}
		timeline = nested
	}

	h := covid.NewHistoricalSeries()
	if err := readCounts(timeline.Get("cases"), "cases", &h.Cases); err != nil {
		return covid.HistoricalSeries{}, err
	}
	if err := readCounts(timeline.Get("deaths"), "deaths", &h.Deaths); err != nil {
		return covid.HistoricalSeries{}, err
	}
	if rec := timeline.Get("recovered"); rec.Exists() {
		if err := readCounts(rec, "recovered", &h.Recovered); err != nil {
			return covid.HistoricalSeries{}, err
		}
	}
	return h, nil
}

func readCounts(r gjson.Result, name string, dst *covid.OrderedCounts) error {
	if !r.IsObject() {
		return fmt.Errorf("%w: %q is missing or not an object", ErrMalformed, name)
	}
	var err error
	r.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("%w: %s[%s] is %s, not a number", ErrMalformed, name, key.String(), value.Type)
			return false
		}
		dst.Set(key.String(), value.Int())
		return true
	})
	return err
}
