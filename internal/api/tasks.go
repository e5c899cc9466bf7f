package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dori/taskdeck/internal/model"
)

// ListTasks returns all tasks of one project.
func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/tasks", projectID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, projectID, taskID int64) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask creates a task inside a project and returns the server record.
func (c *Client) CreateTask(ctx context.Context, projectID int64, req model.CreateTaskRequest) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/tasks", projectID), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask applies a full or partial update and returns the updated record.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteTask marks a task complete via the dedicated endpoint. There is no
// inverse endpoint; uncompleting goes through UpdateTask with the full field
// set.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID int64) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/projects/%d/tasks/%d/complete", projectID, taskID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID), nil, nil)
}
