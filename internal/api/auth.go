package api

import (
	"context"
	"fmt"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// Login authenticates with a mobile number and a pre-hashed password and
// returns the session ticket. The backend also sets the ticket as a
// cookie on the shared jar, so subsequent calls are authenticated even
// if the caller ignores the returned ticket.
func (c *Client) Login(ctx context.Context, form model.LoginForm) (string, error) {
	var ticket string
	if err := c.postJSON(ctx, c.apiURL("/auth/login"), form, &ticket); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return ticket, nil
}

// CurrentUser returns the authenticated user, or a session-error
// rejection when the ticket is stale.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, c.apiURL("/auth/me"), &user); err != nil {
		return model.User{}, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// Logout invalidates the server-side session. Local session state is
// the caller's to clear; it must be cleared even when this call fails.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.postJSON(ctx, c.apiURL("/auth/logout"), nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
