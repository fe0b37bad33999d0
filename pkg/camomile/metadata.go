package camomile

import (
	"context"
	"net/http"
	"strings"
)

// MetadataResource names the resource kinds that carry a metadata tree.
type MetadataResource string

const (
	MetadataCorpus MetadataResource = "corpus"
	MetadataMedium MetadataResource = "medium"
	MetadataLayer  MetadataResource = "layer"
)

func metadataPath(resource MetadataResource, id, keyPath string) (string, error) {
	switch resource {
	case MetadataCorpus, MetadataMedium, MetadataLayer:
	default:
		return "", ErrInvalidOptions.New("metadata is held by corpus, medium and layer resources")
	}
	if id == "" {
		return "", ErrInvalidOptions.New(string(resource) + " ID is required")
	}
	p := string(resource) + "/" + id + "/metadata"
	if keyPath != "" {
		p += "/" + strings.Trim(keyPath, "/")
	}
	return p, nil
}

// GetMetadata returns the metadata value stored at keyPath (dot-separated)
// on the given resource. An empty keyPath returns the whole metadata tree.
func (c *Client) GetMetadata(ctx context.Context, resource MetadataResource, id, keyPath string) (any, error) {
	p, err := metadataPath(resource, id, keyPath)
	if err != nil {
		return nil, err
	}
	var value any
	if err := c.do(ctx, http.MethodGet, p, nil, nil, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// MetadataKeys returns the child key names under keyPath. The server's
// listing convention is a trailing "." segment.
func (c *Client) MetadataKeys(ctx context.Context, resource MetadataResource, id, keyPath string) ([]string, error) {
	p, err := metadataPath(resource, id, keyPath)
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := c.do(ctx, http.MethodGet, p+"/.", nil, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// SetMetadata merges the given document into the resource's metadata tree.
func (c *Client) SetMetadata(ctx context.Context, resource MetadataResource, id string, metadata map[string]any) error {
	p, err := metadataPath(resource, id, "")
	if err != nil {
		return err
	}
	if len(metadata) == 0 {
		return ErrInvalidOptions.New("metadata document is required")
	}
	return c.do(ctx, http.MethodPost, p, nil, metadata, nil)
}

// DeleteMetadata removes the metadata subtree at keyPath.
func (c *Client) DeleteMetadata(ctx context.Context, resource MetadataResource, id, keyPath string) error {
	if keyPath == "" {
		return ErrInvalidOptions.New("metadata key path is required")
	}
	p, err := metadataPath(resource, id, keyPath)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, p, nil, nil, nil)
}
