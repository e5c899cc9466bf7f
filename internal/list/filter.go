// Package list holds the client-side list state: the in-memory ordered
// collection fetched from the backend, the derived search+filter view over
// it, and pagination of that view. One controller instance exists per
// entity type per screen; the project list and a project's task list never
// share state.
package list

import (
	"strings"
)

// StatusFilter selects which items the derived view shows.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterActive
	FilterCompleted
	FilterOverdue // tasks only
)

// String returns the display name for a filter
func (f StatusFilter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	case FilterOverdue:
		return "Overdue"
	default:
		return "All"
	}
}

// Entity is the slice of a Project or Task the list state needs.
type Entity interface {
	EntityID() int64
	SearchFields() (title, description string)
	IsDone() bool
	IsOverdueNow() bool
}

// matchesSearch does a case-insensitive substring match over title and
// description. An absent description behaves as the empty string.
func matchesSearch(e Entity, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	title, description := e.SearchFields()
	return strings.Contains(strings.ToLower(title), q) ||
		strings.Contains(strings.ToLower(description), q)
}

// matchesFilter applies the status filter. Projects count as done at 100%
// progress; tasks use their completion flag, and overdue means the server
// flagged them overdue and they are still open.
func matchesFilter(e Entity, f StatusFilter) bool {
	switch f {
	case FilterActive:
		return !e.IsDone()
	case FilterCompleted:
		return e.IsDone()
	case FilterOverdue:
		return e.IsOverdueNow()
	default:
		return true
	}
}
