package camomile

import (
	"context"
	"net/http"
)

// GroupOptions carries the fields of a group create request.
type GroupOptions struct {
	Name        string      `json:"name" validate:"required"`
	Description Description `json:"description,omitempty"`
}

// GroupUpdate carries the fields of a group update request. Zero-valued
// fields are not sent.
type GroupUpdate struct {
	Name        string      `json:"name,omitempty"`
	Description Description `json:"description,omitempty"`
}

func (u GroupUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	return body
}

// CreateGroup creates a group and returns the created document.
func (c *Client) CreateGroup(ctx context.Context, opts GroupOptions) (*Group, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var group Group
	if err := c.do(ctx, http.MethodPost, "group", nil, opts, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroups returns all groups.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.do(ctx, http.MethodGet, "group", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup returns one group by ID.
func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	if err := requireID("group ID", id); err != nil {
		return nil, err
	}
	var group Group
	if err := c.do(ctx, http.MethodGet, "group/"+id, nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateGroup updates a group and returns the updated document.
func (c *Client) UpdateGroup(ctx context.Context, id string, update GroupUpdate) (*Group, error) {
	if err := requireID("group ID", id); err != nil {
		return nil, err
	}
	var group Group
	if err := c.do(ctx, http.MethodPut, "group/"+id, nil, update.body(), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup deletes a group. Rights granted through the group are revoked;
// member accounts are untouched.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	if err := requireID("group ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "group/"+id, nil, nil, nil)
}

// AddUserToGroup adds a user to a group and returns the updated group.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID string) (*Group, error) {
	if err := requireID("group ID", groupID); err != nil {
		return nil, err
	}
	if err := requireID("user ID", userID); err != nil {
		return nil, err
	}
	var group Group
	if err := c.do(ctx, http.MethodPut, "group/"+groupID+"/user/"+userID, nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// RemoveUserFromGroup removes a user from a group and returns the updated
// group.
func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID string) (*Group, error) {
	if err := requireID("group ID", groupID); err != nil {
		return nil, err
	}
	if err := requireID("user ID", userID); err != nil {
		return nil, err
	}
	var group Group
	if err := c.do(ctx, http.MethodDelete, "group/"+groupID+"/user/"+userID, nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}
