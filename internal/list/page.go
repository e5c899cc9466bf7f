package list

// Page is one pagination window over an item list.
type Page[T any] struct {
	Items      []T
	Number     int // clamped to [1, max(1, TotalPages)]
	TotalPages int
	TotalItems int
	Size       int
}

// TotalPages returns ceil(n/size). Zero items still count as zero pages;
// callers clamp the page number with max(1, TotalPages).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage clamps a requested page number into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate is a pure derivation from (items, page, size) to one page window.
// The requested page is clamped on every call, so navigating past the end
// or before the start never yields an empty slice while items remain.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	total := TotalPages(len(items), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalPages: total,
		TotalItems: len(items),
		Size:       size,
	}
}
