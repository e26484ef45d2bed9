package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a user and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	return do[AuthPayload](ctx, c, http.MethodPost, "/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	})
}

// Register creates an account and returns it with a bearer token, matching
// the login success shape.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthPayload, error) {
	return do[AuthPayload](ctx, c, http.MethodPost, "/auth/register", nil, params)
}

// Profile fetches the current user. The session manager uses it to
// re-validate a cached identity at startup.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	return do[User](ctx, c, http.MethodGet, "/auth/profile", nil, nil)
}

// UpdateProfile updates the mutable profile fields and returns the fresh user.
func (c *Client) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*User, error) {
	return do[User](ctx, c, http.MethodPut, "/auth/profile", nil, params)
}
