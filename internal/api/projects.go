package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dori/taskdeck/internal/model"
)

// ListProjects returns all projects owned by the current user.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a single project with its server-computed progress.
func (c *Client) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a project and returns the server-assigned record.
func (c *Client) CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject applies a partial update and returns the updated record.
func (c *Client) UpdateProject(ctx context.Context, id int64, req model.UpdateProjectRequest) (*model.Project, error) {
	var p model.Project
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject deletes a project. The backend cascades to its tasks.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}

// GetProjectProgress returns just the progress counters for a project.
func (c *Client) GetProjectProgress(ctx context.Context, id int64) (*model.ProjectProgress, error) {
	var progress model.ProjectProgress
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/progress", id), nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
