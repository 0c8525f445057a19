package diseasesh

import (
	"fmt"
	"time"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

type countryInfo struct {
	ID   int    `json:"_id"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

type countryEntry struct {
	Country     string      `json:"country"`
	CountryInfo countryInfo `json:"countryInfo"`
}

// snapshotPayload covers both /all and /countries/{iso2}; only the latter has Country set,
// only the former has AffectedCountries.
type snapshotPayload struct {
	Updated     int64       `json:"updated"`
	Country     string      `json:"country"`
	CountryInfo countryInfo `json:"countryInfo"`

	Cases          int64   `json:"cases"`
	TodayCases     int64   `json:"todayCases"`
	Deaths         int64   `json:"deaths"`
	TodayDeaths    int64   `json:"todayDeaths"`
	Recovered      int64   `json:"recovered"`
	TodayRecovered int64   `json:"todayRecovered"`
	Active         int64   `json:"active"`
	Critical       int64   `json:"critical"`
	Tests          float64 `json:"tests"`
	Population     int64   `json:"population"`

	AffectedCountries int64 `json:"affectedCountries"`
}

func (p snapshotPayload) toSnapshot(region covid.Region) (covid.Snapshot, error) {
	if region.IsGlobal() && p.Country != "" {
		return covid.Snapshot{}, fmt.Errorf("%w: country %q returned for global request", ErrMalformed, p.Country)
	}
	if !region.IsGlobal() && p.Country == "" {
		return covid.Snapshot{}, fmt.Errorf("%w: no country in response for %s", ErrMalformed, region)
	}

	var updated time.Time
	if p.Updated > 0 {
		updated = time.UnixMilli(p.Updated).UTC()
	}
	return covid.Snapshot{
		Country:           p.Country,
		Cases:             p.Cases,
		Recovered:         p.Recovered,
		Deaths:            p.Deaths,
		Active:            p.Active,
		Updated:           updated,
		TodayCases:        p.TodayCases,
		TodayDeaths:       p.TodayDeaths,
		TodayRecovered:    p.TodayRecovered,
		Critical:          p.Critical,
		Tests:             int64(p.Tests),
		Population:        p.Population,
		AffectedCountries: p.AffectedCountries,
	}, nil
}

func toCountryList(entries []countryEntry) covid.CountryList {
	list := make(covid.CountryList, 0, len(entries))
	for _, e := range entries {
		list = append(list, covid.Country{
			ID:   e.CountryInfo.ID,
			Name: e.Country,
			ISO2: e.CountryInfo.ISO2,
			ISO3: e.CountryInfo.ISO3,
		})
	}
	return list
}
