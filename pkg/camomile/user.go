package camomile

import (
	"context"
	"net/http"
)

// Roles accepted by the server for user accounts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserOptions carries the fields of a user create request. Creating users
// requires an admin session.
type UserOptions struct {
	Username    string      `json:"username" validate:"required"`
	Password    string      `json:"password" validate:"required"`
	Role        string      `json:"role" validate:"required,oneof=user admin"`
	Description Description `json:"description,omitempty"`
}

// UserUpdate carries the fields of a user update request. Zero-valued fields
// are not sent.
type UserUpdate struct {
	Password    string      `json:"password,omitempty"`
	Role        string      `json:"role,omitempty"`
	Description Description `json:"description,omitempty"`
}

func (u UserUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Password != "" {
		body["password"] = u.Password
	}
	if u.Role != "" {
		body["role"] = u.Role
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	return body
}

// CreateUser creates a user account and returns the created document.
func (c *Client) CreateUser(ctx context.Context, opts UserOptions) (*User, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "user", nil, opts, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers returns all user accounts.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "user", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if err := requireID("user ID", id); err != nil {
		return nil, err
	}
	var user User
	if err := c.do(ctx, http.MethodGet, "user/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user and returns the updated document.
func (c *Client) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	if err := requireID("user ID", id); err != nil {
		return nil, err
	}
	if update.Role != "" && update.Role != RoleUser && update.Role != RoleAdmin {
		return nil, ErrInvalidOptions.New("role must be user or admin")
	}
	var user User
	if err := c.do(ctx, http.MethodPut, "user/"+id, nil, update.body(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := requireID("user ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "user/"+id, nil, nil, nil)
}

// UserGroups returns the groups a user belongs to.
func (c *Client) UserGroups(ctx context.Context, id string) ([]Group, error) {
	if err := requireID("user ID", id); err != nil {
		return nil, err
	}
	var groups []Group
	if err := c.do(ctx, http.MethodGet, "user/"+id+"/group", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
