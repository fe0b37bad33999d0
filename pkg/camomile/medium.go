package camomile

import (
	"context"
	"io"
	"net/http"
)

// MediumOptions carries the fields of a medium create request.
type MediumOptions struct {
	Name        string      `json:"name" validate:"required"`
	URL         string      `json:"url,omitempty"`
	Description Description `json:"description,omitempty"`
}

// MediumUpdate carries the fields of a medium update request. Zero-valued
// fields are not sent.
type MediumUpdate struct {
	Name        string      `json:"name,omitempty"`
	URL         string      `json:"url,omitempty"`
	Description Description `json:"description,omitempty"`
}

func (u MediumUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.URL != "" {
		body["url"] = u.URL
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	return body
}

// MediumFormat selects the encoding of a medium stream.
type MediumFormat string

const (
	FormatVideo MediumFormat = "video" // server default
	FormatWebM  MediumFormat = "webm"
	FormatMP4   MediumFormat = "mp4"
	FormatOGV   MediumFormat = "ogv"
)

// AddMedium adds one medium to a corpus and returns the created document.
func (c *Client) AddMedium(ctx context.Context, corpusID string, opts MediumOptions) (*Medium, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var medium Medium
	if err := c.do(ctx, http.MethodPost, "corpus/"+corpusID+"/medium", nil, opts, &medium); err != nil {
		return nil, err
	}
	return &medium, nil
}

// AddMedia adds several media to a corpus in one request and returns the
// created documents.
func (c *Client) AddMedia(ctx context.Context, corpusID string, media []MediumOptions) ([]Medium, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, ErrInvalidOptions.New("at least one medium is required")
	}
	for _, m := range media {
		if err := checkOptions(m); err != nil {
			return nil, err
		}
	}
	var created []Medium
	if err := c.do(ctx, http.MethodPost, "corpus/"+corpusID+"/medium", nil, media, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetMedia returns all media of a corpus.
func (c *Client) GetMedia(ctx context.Context, corpusID string, opts ...GetOptions) ([]Medium, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	var media []Medium
	if err := c.do(ctx, http.MethodGet, "corpus/"+corpusID+"/medium", getQuery(opts), nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// GetMedium returns one medium by ID.
func (c *Client) GetMedium(ctx context.Context, id string, opts ...GetOptions) (*Medium, error) {
	if err := requireID("medium ID", id); err != nil {
		return nil, err
	}
	var medium Medium
	if err := c.do(ctx, http.MethodGet, "medium/"+id, getQuery(opts), nil, &medium); err != nil {
		return nil, err
	}
	return &medium, nil
}

// UpdateMedium updates a medium and returns the updated document.
func (c *Client) UpdateMedium(ctx context.Context, id string, update MediumUpdate) (*Medium, error) {
	if err := requireID("medium ID", id); err != nil {
		return nil, err
	}
	var medium Medium
	if err := c.do(ctx, http.MethodPut, "medium/"+id, nil, update.body(), &medium); err != nil {
		return nil, err
	}
	return &medium, nil
}

// DeleteMedium deletes a medium.
func (c *Client) DeleteMedium(ctx context.Context, id string) error {
	if err := requireID("medium ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "medium/"+id, nil, nil, nil)
}

// CountMedia returns the number of media in a corpus.
func (c *Client) CountMedia(ctx context.Context, corpusID string) (int, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return 0, err
	}
	return c.count(ctx, "corpus/"+corpusID+"/medium/count", nil)
}

// StreamMedium returns the medium content in the requested format. The caller
// must close the returned reader; the stream is not buffered by the client.
func (c *Client) StreamMedium(ctx context.Context, id string, format MediumFormat) (io.ReadCloser, error) {
	if err := requireID("medium ID", id); err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatVideo
	}
	return c.stream(ctx, http.MethodGet, "medium/"+id+"/"+string(format), nil)
}
