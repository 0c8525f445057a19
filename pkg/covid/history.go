package covid

// OrderedCounts maps a calendar date key to a cumulative count and remembers
// the order in which keys were added.
type OrderedCounts struct {
	dates  []string
	counts map[string]int64
}

func NewOrderedCounts() OrderedCounts {
	return OrderedCounts{
		counts: make(map[string]int64),
	}
}

// Set stores the count for date. A known date keeps its original position.
func (o *OrderedCounts) Set(date string, count int64) {
	if o.counts == nil {
		o.counts = make(map[string]int64)
	}
	if _, found := o.counts[date]; !found {
		o.dates = append(o.dates, date)
	}
	o.counts[date] = count
}

func (o OrderedCounts) Get(date string) (int64, bool) {
	c, found := o.counts[date]
	return c, found
}

func (o OrderedCounts) Len() int {
	return len(o.dates)
}

// Dates returns a copy of the keys in insertion order.
func (o OrderedCounts) Dates() []string {
	return append([]string(nil), o.dates...)
}

func (o OrderedCounts) at(i int) (string, int64) {
	d := o.dates[i]
	return d, o.counts[d]
}

// HistoricalSeries is the cumulative time series of a region as published upstream.
// Recovered is informational only; upstream stopped publishing it and it may be empty.
type HistoricalSeries struct {
	Cases     OrderedCounts
	Deaths    OrderedCounts
	Recovered OrderedCounts
}

func NewHistoricalSeries() HistoricalSeries {
	return HistoricalSeries{
		Cases:     NewOrderedCounts(),
		Deaths:    NewOrderedCounts(),
		Recovered: NewOrderedCounts(),
	}
}
