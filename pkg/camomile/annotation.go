package camomile

import (
	"context"
	"net/http"
)

// AnnotationOptions carries the fields of an annotation create request.
// Fragment and Data follow the layer's declared fragment_type and data_type;
// the client passes them through unchanged.
type AnnotationOptions struct {
	IDMedium string `json:"id_medium" validate:"required"`
	Fragment any    `json:"fragment"`
	Data     any    `json:"data"`
}

// AnnotationUpdate carries the fields of an annotation update request.
// Nil fields are not sent.
type AnnotationUpdate struct {
	Fragment any `json:"fragment,omitempty"`
	Data     any `json:"data,omitempty"`
}

func (u AnnotationUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Fragment != nil {
		body["fragment"] = u.Fragment
	}
	if u.Data != nil {
		body["data"] = u.Data
	}
	return body
}

// AnnotationFilter narrows annotation reads. Medium restricts the result to
// annotations of one medium; History includes modification history.
type AnnotationFilter struct {
	Medium  string
	History bool
}

func (f AnnotationFilter) query() map[string]string {
	query := map[string]string{}
	if f.Medium != "" {
		query["medium"] = f.Medium
	}
	if f.History {
		query["history"] = "on"
	}
	if len(query) == 0 {
		return nil
	}
	return query
}

// AddAnnotation adds one annotation to a layer and returns the created
// document.
func (c *Client) AddAnnotation(ctx context.Context, layerID string, opts AnnotationOptions) (*Annotation, error) {
	if err := requireID("layer ID", layerID); err != nil {
		return nil, err
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var annotation Annotation
	if err := c.do(ctx, http.MethodPost, "layer/"+layerID+"/annotation", nil, opts, &annotation); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// AddAnnotations adds several annotations to a layer in one request and
// returns the created documents.
func (c *Client) AddAnnotations(ctx context.Context, layerID string, annotations []AnnotationOptions) ([]Annotation, error) {
	if err := requireID("layer ID", layerID); err != nil {
		return nil, err
	}
	if len(annotations) == 0 {
		return nil, ErrInvalidOptions.New("at least one annotation is required")
	}
	for _, a := range annotations {
		if err := checkOptions(a); err != nil {
			return nil, err
		}
	}
	var created []Annotation
	if err := c.do(ctx, http.MethodPost, "layer/"+layerID+"/annotation", nil, annotations, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetAnnotations returns the annotations of a layer, optionally filtered.
func (c *Client) GetAnnotations(ctx context.Context, layerID string, filter ...AnnotationFilter) ([]Annotation, error) {
	if err := requireID("layer ID", layerID); err != nil {
		return nil, err
	}
	var query map[string]string
	if len(filter) > 0 {
		query = filter[0].query()
	}
	var annotations []Annotation
	if err := c.do(ctx, http.MethodGet, "layer/"+layerID+"/annotation", query, nil, &annotations); err != nil {
		return nil, err
	}
	return annotations, nil
}

// GetAnnotation returns one annotation by ID.
func (c *Client) GetAnnotation(ctx context.Context, id string, opts ...GetOptions) (*Annotation, error) {
	if err := requireID("annotation ID", id); err != nil {
		return nil, err
	}
	var annotation Annotation
	if err := c.do(ctx, http.MethodGet, "annotation/"+id, getQuery(opts), nil, &annotation); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// UpdateAnnotation updates an annotation and returns the updated document.
func (c *Client) UpdateAnnotation(ctx context.Context, id string, update AnnotationUpdate) (*Annotation, error) {
	if err := requireID("annotation ID", id); err != nil {
		return nil, err
	}
	var annotation Annotation
	if err := c.do(ctx, http.MethodPut, "annotation/"+id, nil, update.body(), &annotation); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// DeleteAnnotation deletes an annotation.
func (c *Client) DeleteAnnotation(ctx context.Context, id string) error {
	if err := requireID("annotation ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "annotation/"+id, nil, nil, nil)
}

// CountAnnotations returns the number of annotations in a layer, optionally
// filtered to one medium.
func (c *Client) CountAnnotations(ctx context.Context, layerID string, filter ...AnnotationFilter) (int, error) {
	if err := requireID("layer ID", layerID); err != nil {
		return 0, err
	}
	var query map[string]string
	if len(filter) > 0 {
		query = filter[0].query()
	}
	return c.count(ctx, "layer/"+layerID+"/annotation/count", query)
}
