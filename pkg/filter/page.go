package filter

// DefaultPageSize is used when the caller does not configure one.
const DefaultPageSize = 20

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// TotalPages returns ceil(total/pageSize), at least 1 so an empty result
// still has a current page.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces page into [1, TotalPages]. Out-of-range navigation is a
// no-op at the store level; this makes the read side safe regardless.
func ClampPage(page, total, pageSize int) int {
	return clamp(page, 1, TotalPages(total, pageSize))
}

// Slice returns the page window: at most pageSize rows starting at
// (page-1)*pageSize. The page number is clamped first, never an error.
func Slice(rows []Ranked, pageSize, page int) []Ranked {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = ClampPage(page, len(rows), pageSize)
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []Ranked{}
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end]
}
