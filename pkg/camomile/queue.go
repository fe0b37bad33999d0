package camomile

import (
	"context"
	"net/http"
)

// QueueOptions carries the fields of a queue create request. List may seed
// the queue with initial items.
type QueueOptions struct {
	Name        string      `json:"name" validate:"required"`
	Description Description `json:"description,omitempty"`
	List        []any       `json:"list,omitempty"`
}

// QueueUpdate carries the fields of a queue update request. Zero-valued
// fields are not sent; setting List replaces the queue content wholesale.
type QueueUpdate struct {
	Name        string      `json:"name,omitempty"`
	Description Description `json:"description,omitempty"`
	List        []any       `json:"list,omitempty"`
}

func (u QueueUpdate) body() map[string]any {
	body := map[string]any{}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	if u.List != nil {
		body["list"] = u.List
	}
	return body
}

// CreateQueue creates a queue and returns the created document.
func (c *Client) CreateQueue(ctx context.Context, opts QueueOptions) (*Queue, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	var queue Queue
	if err := c.do(ctx, http.MethodPost, "queue", nil, opts, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// GetQueues returns all queues readable by the logged-in user.
func (c *Client) GetQueues(ctx context.Context) ([]Queue, error) {
	var queues []Queue
	if err := c.do(ctx, http.MethodGet, "queue", nil, nil, &queues); err != nil {
		return nil, err
	}
	return queues, nil
}

// GetQueue returns one queue by ID.
func (c *Client) GetQueue(ctx context.Context, id string) (*Queue, error) {
	if err := requireID("queue ID", id); err != nil {
		return nil, err
	}
	var queue Queue
	if err := c.do(ctx, http.MethodGet, "queue/"+id, nil, nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// UpdateQueue updates a queue and returns the updated document.
func (c *Client) UpdateQueue(ctx context.Context, id string, update QueueUpdate) (*Queue, error) {
	if err := requireID("queue ID", id); err != nil {
		return nil, err
	}
	var queue Queue
	if err := c.do(ctx, http.MethodPut, "queue/"+id, nil, update.body(), &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// DeleteQueue deletes a queue.
func (c *Client) DeleteQueue(ctx context.Context, id string) error {
	if err := requireID("queue ID", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "queue/"+id, nil, nil, nil)
}

// Enqueue appends items to the end of a queue.
func (c *Client) Enqueue(ctx context.Context, id string, items ...any) error {
	if err := requireID("queue ID", id); err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrInvalidOptions.New("at least one item is required")
	}
	return c.do(ctx, http.MethodPut, "queue/"+id+"/next", nil, items, nil)
}

// Pick removes and returns the first item of a queue. An empty queue is a
// request error, as reported by the server.
func (c *Client) Pick(ctx context.Context, id string) (any, error) {
	if err := requireID("queue ID", id); err != nil {
		return nil, err
	}
	var item any
	if err := c.do(ctx, http.MethodGet, "queue/"+id+"/next", nil, nil, &item); err != nil {
		return nil, err
	}
	return item, nil
}

// PickAll returns all items of a queue without removing them.
func (c *Client) PickAll(ctx context.Context, id string) ([]any, error) {
	if err := requireID("queue ID", id); err != nil {
		return nil, err
	}
	var items []any
	if err := c.do(ctx, http.MethodGet, "queue/"+id+"/all", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PickLength returns the number of items remaining in a queue.
func (c *Client) PickLength(ctx context.Context, id string) (int, error) {
	if err := requireID("queue ID", id); err != nil {
		return 0, err
	}
	return c.count(ctx, "queue/"+id+"/length", nil)
}

// CountQueues returns the number of queues readable by the logged-in user.
func (c *Client) CountQueues(ctx context.Context) (int, error) {
	return c.count(ctx, "queue/count", nil)
}
