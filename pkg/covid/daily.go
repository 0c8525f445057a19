package covid

import (
	"errors"
	"fmt"
	"time"
)

// ErrMismatchedDates is returned when the cases and deaths series are not keyed by the
// same dates in the same order.
var ErrMismatchedDates = errors.New("cases and deaths series have different dates")

// upstream keys look like "1/22/20"
const historyDateLayout = "1/2/06"

// DailyPoint is the day-over-day difference between two adjacent historical entries.
// Recovered is derived as Positive - Death, it is not measured.
type DailyPoint struct {
	Date string
	Day  time.Time

	Positive  int64
	Death     int64
	Recovered int64
}

// ParseHistoryDate parses an upstream date key; the zero time is returned for unknown formats.
func ParseHistoryDate(key string) time.Time {
	t, err := time.Parse(historyDateLayout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DailySeries converts cumulative counts into daily deltas. For N dates it returns
// exactly max(N-1, 0) points. Negative deltas, produced by upstream corrections,
// are kept as is.
func DailySeries(h HistoricalSeries) ([]DailyPoint, error) {
	if err := checkSameDates(h.Cases, h.Deaths); err != nil {
		return nil, err
	}

	n := h.Cases.Len()
	if n < 2 {
		return []DailyPoint{}, nil
	}

	result := make([]DailyPoint, 0, n-1)
	for i := 1; i < n; i++ {
		date, cases := h.Cases.at(i)
		_, prevCases := h.Cases.at(i - 1)
		_, deaths := h.Deaths.at(i)
		_, prevDeaths := h.Deaths.at(i - 1)

		positive := cases - prevCases
		death := deaths - prevDeaths
		result = append(result, DailyPoint{
			Date:      date,
			Day:       ParseHistoryDate(date),
			Positive:  positive,
			Death:     death,
			Recovered: positive - death,
		})
	}
	return result, nil
}

func checkSameDates(cases, deaths OrderedCounts) error {
	if cases.Len() != deaths.Len() {
		return fmt.Errorf("%w: %d case dates vs %d death dates", ErrMismatchedDates, cases.Len(), deaths.Len())
	}
	for i := range cases.dates {
		if cases.dates[i] != deaths.dates[i] {
			return fmt.Errorf("%w: index %d is %q for cases and %q for deaths",
				ErrMismatchedDates, i, cases.dates[i], deaths.dates[i])
		}
	}
	return nil
}
