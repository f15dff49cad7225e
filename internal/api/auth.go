package api

import (
	"context"

	"event-storefront/internal/models"
)

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup calls POST /auth/signup.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser calls GET /auth/me with the client's token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
