package camomile

import (
	"context"
	"net/http"
	"strconv"
)

// Permission routes exist for corpora and layers; media inherit from their
// corpus, annotations from their layer.

func validRight(right Right) error {
	if right < RightRead || right > RightAdmin {
		return ErrInvalidOptions.New("right must be 1 (read), 2 (write) or 3 (admin)")
	}
	return nil
}

func rightBody(right Right) map[string]any {
	return map[string]any{"right": int(right)}
}

// GetCorpusPermissions returns the rights held on a corpus, keyed by user and
// group ID. Requires admin right on the corpus.
func (c *Client) GetCorpusPermissions(ctx context.Context, corpusID string) (*Permissions, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	var perms Permissions
	if err := c.do(ctx, http.MethodGet, "corpus/"+corpusID+"/permissions", nil, nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// SetCorpusPermissionForUser grants a user the given right on a corpus.
func (c *Client) SetCorpusPermissionForUser(ctx context.Context, corpusID, userID string, right Right) (*Permissions, error) {
	return c.setPermission(ctx, "corpus", corpusID, "user", userID, right)
}

// RemoveCorpusPermissionForUser revokes a user's right on a corpus.
func (c *Client) RemoveCorpusPermissionForUser(ctx context.Context, corpusID, userID string) (*Permissions, error) {
	return c.removePermission(ctx, "corpus", corpusID, "user", userID)
}

// SetCorpusPermissionForGroup grants a group the given right on a corpus.
func (c *Client) SetCorpusPermissionForGroup(ctx context.Context, corpusID, groupID string, right Right) (*Permissions, error) {
	return c.setPermission(ctx, "corpus", corpusID, "group", groupID, right)
}

// RemoveCorpusPermissionForGroup revokes a group's right on a corpus.
func (c *Client) RemoveCorpusPermissionForGroup(ctx context.Context, corpusID, groupID string) (*Permissions, error) {
	return c.removePermission(ctx, "corpus", corpusID, "group", groupID)
}

// GetLayerPermissions returns the rights held on a layer. Requires admin
// right on the layer.
func (c *Client) GetLayerPermissions(ctx context.Context, layerID string) (*Permissions, error) {
	if err := requireID("layer ID", layerID); err != nil {
		return nil, err
	}
	var perms Permissions
	if err := c.do(ctx, http.MethodGet, "layer/"+layerID+"/permissions", nil, nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// SetLayerPermissionForUser grants a user the given right on a layer.
func (c *Client) SetLayerPermissionForUser(ctx context.Context, layerID, userID string, right Right) (*Permissions, error) {
	return c.setPermission(ctx, "layer", layerID, "user", userID, right)
}

// RemoveLayerPermissionForUser revokes a user's right on a layer.
func (c *Client) RemoveLayerPermissionForUser(ctx context.Context, layerID, userID string) (*Permissions, error) {
	return c.removePermission(ctx, "layer", layerID, "user", userID)
}

// SetLayerPermissionForGroup grants a group the given right on a layer.
func (c *Client) SetLayerPermissionForGroup(ctx context.Context, layerID, groupID string, right Right) (*Permissions, error) {
	return c.setPermission(ctx, "layer", layerID, "group", groupID, right)
}

// RemoveLayerPermissionForGroup revokes a group's right on a layer.
func (c *Client) RemoveLayerPermissionForGroup(ctx context.Context, layerID, groupID string) (*Permissions, error) {
	return c.removePermission(ctx, "layer", layerID, "group", groupID)
}

func (c *Client) setPermission(ctx context.Context, resource, resourceID, principal, principalID string, right Right) (*Permissions, error) {
	if err := requireID(resource+" ID", resourceID); err != nil {
		return nil, err
	}
	if err := requireID(principal+" ID", principalID); err != nil {
		return nil, err
	}
	if err := validRight(right); err != nil {
		return nil, err
	}
	var perms Permissions
	path := resource + "/" + resourceID + "/" + principal + "/" + principalID
	if err := c.do(ctx, http.MethodPut, path, nil, rightBody(right), &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

func (c *Client) removePermission(ctx context.Context, resource, resourceID, principal, principalID string) (*Permissions, error) {
	if err := requireID(resource+" ID", resourceID); err != nil {
		return nil, err
	}
	if err := requireID(principal+" ID", principalID); err != nil {
		return nil, err
	}
	var perms Permissions
	path := resource + "/" + resourceID + "/" + principal + "/" + principalID
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// String returns the conventional name of a right.
func (r Right) String() string {
	switch r {
	case RightRead:
		return "read"
	case RightWrite:
		return "write"
	case RightAdmin:
		return "admin"
	default:
		return strconv.Itoa(int(r))
	}
}
