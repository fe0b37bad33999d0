package camomile

import (
	"context"
	"net/http"
)

// LayerOptions carries the fields of a layer create request. Annotations may
// carry an initial set of annotations created with the layer in one request.
type LayerOptions struct {
	Name         string              `json:"name" validate:"required"`
	FragmentType string              `json:"fragment_type" validate:"required"`
	DataType     string              `json:"data_type" validate:"required"`
	Description  Description         `json:"description,omitempty"`
	Annotations  []AnnotationOptions `json:"annotations,omitempty"`
}

// LayerUpdate carries the fields of a layer update request. Zero-valued
// fields are not sent.
type LayerUpdate struct {
	Name         string      `json:"name,omitempty"`
	FragmentType string      `json:"fragment_type,omitempty"`
	DataType     string      `json:"data_type,omitempty"`
	Description  Description `json:"description,omitempty"`
}

func (u LayerUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.FragmentType != "" {
		body["fragment_type"] = u.FragmentType
	}
	if u.DataType != "" {
		body["data_type"] = u.DataType
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	return body
}

// AddLayer adds a layer to a corpus and returns the created document. When
// opts.Annotations is set, the annotations are created with the layer in the
// same request.
func (c *Client) AddLayer(ctx context.Context, corpusID string, opts LayerOptions) (*Layer, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var layer Layer
	if err := c.do(ctx, http.MethodPost, "corpus/"+corpusID+"/layer", nil, opts, &layer); err != nil {
		return nil, err
	}
	return &layer, nil
}

// GetLayers returns all layers of a corpus.
func (c *Client) GetLayers(ctx context.Context, corpusID string, opts ...GetOptions) ([]Layer, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return nil, err
	}
	var layers []Layer
	if err := c.do(ctx, http.MethodGet, "corpus/"+corpusID+"/layer", getQuery(opts), nil, &layers); err != nil {
		return nil, err
	}
	return layers, nil
}

// GetLayer returns one layer by ID.
func (c *Client) GetLayer(ctx context.Context, id string, opts ...GetOptions) (*Layer, error) {
	if err := requireID("layer ID", id); err != nil {
		return nil, err
	}
	var layer Layer
	if err := c.do(ctx, http.MethodGet, "layer/"+id, getQuery(opts), nil, &layer); err != nil {
		return nil, err
	}
	return &layer, nil
}

// UpdateLayer updates a layer and returns the updated document.
func (c *Client) UpdateLayer(ctx context.Context, id string, update LayerUpdate) (*Layer, error) {
	if err := requireID("layer ID", id); err != nil {
		return nil, err
	}
	var layer Layer
	if err := c.do(ctx, http.MethodPut, "layer/"+id, nil, update.body(), &layer); err != nil {
		return nil, err
	}
	return &layer, nil
}

// DeleteLayer deletes a layer with all its annotations.
func (c *Client) DeleteLayer(ctx context.Context, id string) error {
	if err := requireID("layer ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "layer/"+id, nil, nil, nil)
}

// CountLayers returns the number of layers in a corpus.
func (c *Client) CountLayers(ctx context.Context, corpusID string) (int, error) {
	if err := requireID("corpus ID", corpusID); err != nil {
		return 0, err
	}
	return c.count(ctx, "corpus/"+corpusID+"/layer/count", nil)
}
