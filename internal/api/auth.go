package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, "/auth/login", RequestOptions{Method: http.MethodPost, Body: creds}, &raw); err != nil {
		return nil, err
	}

	u, err := decodeUser(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}

	return u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Request(ctx, "/auth/logout", RequestOptions{Method: http.MethodPost}, nil)
}

// Me returns the identity attached to the current session. The API answers 401
// when there is none.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, "/auth/me", RequestOptions{}, &raw); err != nil {
		return nil, err
	}

	u, err := decodeUser(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding identity: %w", err)
	}

	return u, nil
}

// decodeUser accepts both {"user": {...}} and a bare user object.
func decodeUser(raw json.RawMessage) (*User, error) {
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}

	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}

	if len(wrapped.User) > 0 && string(wrapped.User) != "null" {
		raw = wrapped.User
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}

	if u.ID == "" {
		return nil, fmt.Errorf("identity without id")
	}

	return &u, nil
}
