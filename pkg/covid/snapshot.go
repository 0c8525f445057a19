package covid

import "time"

// Snapshot holds cumulative totals for a region at fetch time.
type Snapshot struct {
	Country string

	Cases     int64
	Recovered int64
	Deaths    int64
	Active    int64
	Updated   time.Time

	TodayCases        int64
	TodayDeaths       int64
	TodayRecovered    int64
	Critical          int64
	Tests             int64
	Population        int64
	AffectedCountries int64
}

// RegionData is everything a single region load brings back.
type RegionData struct {
	Region    Region
	Snapshot  Snapshot
	History   HistoricalSeries
	Countries CountryList
}
