package model

import (
	"time"
)

// Task represents a single todo item inside a project.
//
// Overdue is computed server-side (due date in the past and not completed);
// the client trusts the flag rather than comparing clocks. Completed tasks
// always carry a CompletedAt timestamp.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Overdue     bool       `json:"overdue"`
	ProjectID   int64      `json:"projectId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOverdue returns true if the server flagged the task overdue and it has
// not been completed since.
func (t Task) IsOverdue() bool {
	return t.Overdue && !t.Completed
}

// EntityID implements list.Entity
func (t Task) EntityID() int64 { return t.ID }

// SearchFields implements list.Entity
func (t Task) SearchFields() (title, description string) {
	return t.Title, t.Description
}

// IsDone implements list.Entity
func (t Task) IsDone() bool { return t.Completed }

// IsOverdueNow implements list.Entity
func (t Task) IsOverdueNow() bool { return t.IsOverdue() }

// UncompleteRequest builds the full-record update body that marks the task
// incomplete. The backend has no dedicated uncomplete endpoint, so every
// field must be resent through the generic update or its value is lost.
func (t Task) UncompleteRequest() UpdateTaskRequest {
	title := t.Title
	description := t.Description
	completed := false
	req := UpdateTaskRequest{
		Title:       &title,
		Description: &description,
		Completed:   &completed,
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		req.DueDate = &due
	}
	return req
}

// IsDueToday returns true if the task is due today
func (t Task) IsDueToday() bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	now := time.Now()
	return t.DueDate.Year() == now.Year() &&
		t.DueDate.YearDay() == now.YearDay()
}

// DueLabel formats the due date for display, empty when no due date is set
func (t Task) DueLabel() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format("2006-01-02")
}

// CreateTaskRequest is the body of POST /projects/{id}/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
}

// UpdateTaskRequest is the body of PUT /projects/{id}/tasks/{taskId}. All
// fields are optional; the uncomplete path sends every field because the
// backend has no dedicated uncomplete endpoint and a partial body would
// drop the omitted values.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
