package camomile

import (
	"context"
	"net/http"
	"strconv"
)

// CorpusOptions carries the fields of a corpus create request.
type CorpusOptions struct {
	Name        string      `json:"name" validate:"required"`
	Description Description `json:"description,omitempty"`
}

// CorpusUpdate carries the fields of a corpus update request. Zero-valued
// fields are not sent, so an update never clears a field it does not name.
type CorpusUpdate struct {
	Name        string      `json:"name,omitempty"`
	Description Description `json:"description,omitempty"`
}

func (u CorpusUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	return body
}

// GetOptions modifies read requests. History asks the server to include the
// resource's modification history in the returned documents.
type GetOptions struct {
	History bool
}

func getQuery(opts []GetOptions) map[string]string {
	if len(opts) > 0 && opts[0].History {
		return map[string]string{"history": "on"}
	}
	return nil
}

// CreateCorpus creates a corpus and returns the created document.
func (c *Client) CreateCorpus(ctx context.Context, opts CorpusOptions) (*Corpus, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var corpus Corpus
	if err := c.do(ctx, http.MethodPost, "corpus", nil, opts, &corpus); err != nil {
		return nil, err
	}
	return &corpus, nil
}

// GetCorpora returns all corpora readable by the logged-in user.
func (c *Client) GetCorpora(ctx context.Context, opts ...GetOptions) ([]Corpus, error) {
	var corpora []Corpus
	if err := c.do(ctx, http.MethodGet, "corpus", getQuery(opts), nil, &corpora); err != nil {
		return nil, err
	}
	return corpora, nil
}

// GetCorpus returns one corpus by ID.
func (c *Client) GetCorpus(ctx context.Context, id string, opts ...GetOptions) (*Corpus, error) {
	if err := requireID("corpus ID", id); err != nil {
		return nil, err
	}
	var corpus Corpus
	if err := c.do(ctx, http.MethodGet, "corpus/"+id, getQuery(opts), nil, &corpus); err != nil {
		return nil, err
	}
	return &corpus, nil
}

// UpdateCorpus updates a corpus and returns the updated document.
func (c *Client) UpdateCorpus(ctx context.Context, id string, update CorpusUpdate) (*Corpus, error) {
	if err := requireID("corpus ID", id); err != nil {
		return nil, err
	}
	var corpus Corpus
	if err := c.do(ctx, http.MethodPut, "corpus/"+id, nil, update.body(), &corpus); err != nil {
		return nil, err
	}
	return &corpus, nil
}

// DeleteCorpus deletes a corpus with all its media, layers and annotations.
func (c *Client) DeleteCorpus(ctx context.Context, id string) error {
	if err := requireID("corpus ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "corpus/"+id, nil, nil, nil)
}

// CountCorpora returns the number of corpora readable by the logged-in user.
func (c *Client) CountCorpora(ctx context.Context) (int, error) {
	return c.count(ctx, "corpus/count", nil)
}

// count issues a count route and accepts both bare-number and {"count": n}
// response shapes.
func (c *Client) count(ctx context.Context, path string, query map[string]string) (int, error) {
	var raw any
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, ErrSerialization.MsgErr("unexpected count response", err)
		}
		return n, nil
	case map[string]any:
		if n, ok := v["count"].(float64); ok {
			return int(n), nil
		}
	}
	return 0, ErrSerialization.New("unexpected count response")
}
