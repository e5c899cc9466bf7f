package api

import (
	"context"
	"net/http"

	"github.com/dori/taskdeck/internal/model"
)

// Login exchanges credentials for a token and user identity.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthPayload, error) {
	var payload model.AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns the new session payload.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthPayload, error) {
	var payload model.AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
