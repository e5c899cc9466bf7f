package model

import (
	"time"
)

// Project represents a task list/project.
//
// TotalTasks, CompletedTasks and ProgressPercentage are computed server-side
// from the project's tasks; the client trusts them verbatim and re-fetches
// the project after any task mutation instead of recomputing locally.
type Project struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	TotalTasks         int       `json:"totalTasks"`
	CompletedTasks     int       `json:"completedTasks"`
	ProgressPercentage float64   `json:"progressPercentage"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// IsComplete returns true once every task in the project is done
func (p Project) IsComplete() bool {
	return p.ProgressPercentage == 100
}

// EntityID implements list.Entity
func (p Project) EntityID() int64 { return p.ID }

// SearchFields implements list.Entity
func (p Project) SearchFields() (title, description string) {
	return p.Title, p.Description
}

// IsDone implements list.Entity
func (p Project) IsDone() bool { return p.IsComplete() }

// IsOverdueNow implements list.Entity; projects have no overdue state
func (p Project) IsOverdueNow() bool { return false }

// ProjectProgress is the unwrapped body of GET /projects/{id}/progress.
type ProjectProgress struct {
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateProjectRequest is the partial body of PUT /projects/{id}.
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
