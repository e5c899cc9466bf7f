package list

import (
	"testing"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{9, 9, 1},
		{10, 9, 2},
		{10, 10, 1},
		{11, 10, 2},
		{100, 9, 12},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{0, 5, 1},
		{-3, 5, 1},
		{1, 5, 1},
		{5, 5, 5},
		{6, 5, 5},
		{2, 0, 1}, // zero pages still clamps into [1,1]
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

// TestPaginateReconstructs checks that for a range of sizes the
// concatenation of all page slices is exactly the original list.
func TestPaginateReconstructs(t *testing.T) {
	for _, n := range []int{0, 1, 5, 9, 10, 27, 100} {
		for _, size := range []int{1, 3, 9, 10, 50} {
			items := sequence(n)

			total := TotalPages(n, size)
			var rebuilt []int
			for p := 1; p <= total; p++ {
				page := Paginate(items, p, size)
				if page.Number != p {
					t.Fatalf("n=%d size=%d: page %d reported number %d", n, size, p, page.Number)
				}
				rebuilt = append(rebuilt, page.Items...)
			}

			if len(rebuilt) != n {
				t.Fatalf("n=%d size=%d: rebuilt %d items", n, size, len(rebuilt))
			}
			for i, v := range rebuilt {
				if v != i {
					t.Fatalf("n=%d size=%d: rebuilt[%d] = %d", n, size, i, v)
				}
			}
		}
	}
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	items := sequence(25)

	low := Paginate(items, -2, 10)
	if low.Number != 1 || len(low.Items) != 10 || low.Items[0] != 0 {
		t.Errorf("page -2: got number=%d len=%d", low.Number, len(low.Items))
	}

	high := Paginate(items, 99, 10)
	if high.Number != 3 || len(high.Items) != 5 || high.Items[0] != 20 {
		t.Errorf("page 99: got number=%d len=%d", high.Number, len(high.Items))
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]int{}, 3, 10)
	if page.Number != 1 {
		t.Errorf("empty list page number = %d, want 1", page.Number)
	}
	if len(page.Items) != 0 {
		t.Errorf("empty list yielded %d items", len(page.Items))
	}
	if page.TotalPages != 0 {
		t.Errorf("empty list total pages = %d, want 0", page.TotalPages)
	}
}

func TestPaginateNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -10} {
		page := Paginate(sequence(3), 1, size)
		if page.Number != 1 {
			t.Errorf("size %d: page number = %d", size, page.Number)
		}
		if len(page.Items) != 1 || page.Items[0] != 0 {
			t.Errorf("size %d: items = %v, want single-item page", size, page.Items)
		}
		if page.TotalPages != 3 {
			t.Errorf("size %d: total pages = %d, want 3", size, page.TotalPages)
		}
	}
}

// Ten tasks at page size ten fit one page; asking for page two clamps back
// to the full first page.
func TestPaginateExactFitClamp(t *testing.T) {
	items := sequence(10)

	first := Paginate(items, 1, 10)
	if first.Number != 1 || len(first.Items) != 10 {
		t.Fatalf("page 1: number=%d len=%d", first.Number, len(first.Items))
	}

	second := Paginate(items, 2, 10)
	if second.Number != 1 {
		t.Errorf("page 2 request: number = %d, want clamp to 1", second.Number)
	}
	if len(second.Items) != 10 {
		t.Errorf("page 2 request: len = %d, want 10", len(second.Items))
	}
}
