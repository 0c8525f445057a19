package covid

// DefaultPageSize is how many daily points are shown at once.
const DefaultPageSize = 32

// Page returns the page-th (zero based) slice of points and the total number of pages.
// Pages outside the range are empty.
func Page(points []DailyPoint, page, size int) ([]DailyPoint, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(points) + size - 1) / size
	if page < 0 || page >= pages {
		return []DailyPoint{}, pages
	}
	start := page * size
	end := start + size
	if end > len(points) {
		end = len(points)
	}
	return points[start:end], pages
}

// LastPage is the page containing the most recent days.
func LastPage(points []DailyPoint, size int) ([]DailyPoint, int) {
	_, pages := Page(points, 0, size)
	if pages == 0 {
		return []DailyPoint{}, 0
	}
	p, _ := Page(points, pages-1, size)
	return p, pages - 1
}
