package list

import (
	"slices"
)

// Controller owns the ordered item collection for one screen and derives
// the visible page from it. Items arrive from the backend wholesale on load;
// mutations reconcile the local copy against the server-returned record (the
// server-assigned id and computed fields are authoritative, nothing is
// synthesized optimistically). All methods run on the UI event loop.
type Controller[T Entity] struct {
	items        []T
	searchQuery  string
	statusFilter StatusFilter
	page         int
	pageSize     int

	// lastLen tracks the derived view's length so that any change (load,
	// filter, search, mutation) resets the page to 1. A shrunk list must
	// never leave the user stranded on a silently empty page.
	lastLen int

	// pending records that a mutation was reconciled since the last
	// TakeMutation call. The task screen drains it into a re-fetch of the
	// parent project, whose progress counters are a server responsibility.
	pending bool

	// onMutate, when set, additionally fires on every reconciled mutation.
	onMutate func()
}

// NewController creates an empty controller with the given page size.
func NewController[T Entity](pageSize int) *Controller[T] {
	return &Controller[T]{page: 1, pageSize: pageSize, lastLen: -1}
}

// OnMutate registers the mutation-completed hook.
func (c *Controller[T]) OnMutate(fn func()) {
	c.onMutate = fn
}

func (c *Controller[T]) mutated() {
	c.pending = true
	if c.onMutate != nil {
		c.onMutate()
	}
}

// TakeMutation reports whether a mutation was reconciled since the last
// call, clearing the event.
func (c *Controller[T]) TakeMutation() bool {
	pending := c.pending
	c.pending = false
	return pending
}

// SetItems replaces the collection wholesale after a load and resets
// pagination. A failed load never reaches here; the previous items stand.
func (c *Controller[T]) SetItems(items []T) {
	c.items = items
	c.page = 1
	c.lastLen = -1
}

// Prepend puts a newly created entity at the front of the collection.
func (c *Controller[T]) Prepend(item T) {
	c.items = append([]T{item}, c.items...)
	c.mutated()
}

// ReplaceItem swaps the matching entity in place, preserving its position.
// Unknown ids are ignored (a late response for a reloaded list).
func (c *Controller[T]) ReplaceItem(item T) {
	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			c.mutated()
			return
		}
	}
}

// Remove drops the matching entity from the collection.
func (c *Controller[T]) Remove(id int64) {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item T) bool {
		return item.EntityID() == id
	})
	if len(c.items) != before {
		c.mutated()
	}
}

// Get returns the entity with the given id from the full collection.
func (c *Controller[T]) Get(id int64) (T, bool) {
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the full unfiltered collection in order.
func (c *Controller[T]) Items() []T {
	return c.items
}

// Len returns the size of the full unfiltered collection.
func (c *Controller[T]) Len() int {
	return len(c.items)
}

// SetSearch sets the search query; it takes effect on the next View call.
func (c *Controller[T]) SetSearch(query string) {
	c.searchQuery = query
}

// Search returns the current search query.
func (c *Controller[T]) Search() string {
	return c.searchQuery
}

// SetFilter sets the status filter; it takes effect on the next View call.
func (c *Controller[T]) SetFilter(f StatusFilter) {
	c.statusFilter = f
}

// Filter returns the current status filter.
func (c *Controller[T]) Filter() StatusFilter {
	return c.statusFilter
}

// GoToPage requests a page; the value is clamped when the view is derived.
func (c *Controller[T]) GoToPage(page int) {
	c.page = page
}

// NextPage advances one page.
func (c *Controller[T]) NextPage() {
	c.page++
}

// PrevPage goes back one page.
func (c *Controller[T]) PrevPage() {
	c.page--
}

// filtered derives the search+filter view. Search and filter compose by
// conjunction: an item must match both to appear.
func (c *Controller[T]) filtered() []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if matchesSearch(item, c.searchQuery) && matchesFilter(item, c.statusFilter) {
			out = append(out, item)
		}
	}
	return out
}

// View derives the currently visible page. When the filtered list changed
// length since the last derivation the page resets to 1.
func (c *Controller[T]) View() Page[T] {
	filtered := c.filtered()
	if len(filtered) != c.lastLen {
		c.lastLen = len(filtered)
		c.page = 1
	}
	p := Paginate(filtered, c.page, c.pageSize)
	c.page = p.Number
	return p
}
