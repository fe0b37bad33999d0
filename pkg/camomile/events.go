package camomile

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/camomile-project/camomile-go/internal/common/httpclient"
)

// WatchEvent is one server-sent event delivered on a Listener. Resource and
// ID identify the watched resource; Data is the decoded JSON payload the
// server attached to the event.
type WatchEvent struct {
	Resource string
	ID       string
	Data     any
}

// Listener is an open event channel on the server. Watch methods subscribe
// it to individual resources; Events delivers the resulting notifications.
// A Listener owns one goroutine reading the stream; Close releases it.
type Listener struct {
	client    *Client
	channelID string
	stream    io.ReadCloser
	events    chan WatchEvent
	done      chan struct{}

	mu     sync.Mutex
	err    error
	closed bool
}

// Listen opens an event channel on the server and starts consuming its
// stream. The returned Listener delivers events until Close is called, the
// context is cancelled, or the server ends the stream.
func (c *Client) Listen(ctx context.Context) (*Listener, error) {
	var resp struct {
		ChannelID string `json:"channel_id"`
	}
	if err := c.do(ctx, http.MethodPost, "listen", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ChannelID == "" {
		return nil, ErrSerialization.New("server returned no channel ID")
	}

	stream, err := c.stream(ctx, http.MethodGet, "listen/"+resp.ChannelID, nil)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		client:    c,
		channelID: resp.ChannelID,
		stream:    stream,
		events:    make(chan WatchEvent, 16),
		done:      make(chan struct{}),
	}
	go l.consume()
	return l, nil
}

// ChannelID returns the server-assigned identifier of the event channel.
func (l *Listener) ChannelID() string {
	return l.channelID
}

// Events returns the channel delivering watch events. It is closed when the
// stream ends; check Err afterwards.
func (l *Listener) Events() <-chan WatchEvent {
	return l.events
}

// Err returns the error that ended the stream, or nil after a clean Close.
func (l *Listener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close stops the stream and releases the Listener's goroutine. Safe to call
// more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.done)
	l.mu.Unlock()
	return l.stream.Close()
}

// WatchCorpus subscribes the listener to events on a corpus.
func (l *Listener) WatchCorpus(ctx context.Context, corpusID string) error {
	return l.watch(ctx, http.MethodPut, "corpus", corpusID)
}

// UnwatchCorpus removes a corpus subscription.
func (l *Listener) UnwatchCorpus(ctx context.Context, corpusID string) error {
	return l.watch(ctx, http.MethodDelete, "corpus", corpusID)
}

// WatchMedium subscribes the listener to events on a medium.
func (l *Listener) WatchMedium(ctx context.Context, mediumID string) error {
	return l.watch(ctx, http.MethodPut, "medium", mediumID)
}

// UnwatchMedium removes a medium subscription.
func (l *Listener) UnwatchMedium(ctx context.Context, mediumID string) error {
	return l.watch(ctx, http.MethodDelete, "medium", mediumID)
}

// WatchLayer subscribes the listener to events on a layer.
func (l *Listener) WatchLayer(ctx context.Context, layerID string) error {
	return l.watch(ctx, http.MethodPut, "layer", layerID)
}

// UnwatchLayer removes a layer subscription.
func (l *Listener) UnwatchLayer(ctx context.Context, layerID string) error {
	return l.watch(ctx, http.MethodDelete, "layer", layerID)
}

// WatchQueue subscribes the listener to events on a queue.
func (l *Listener) WatchQueue(ctx context.Context, queueID string) error {
	return l.watch(ctx, http.MethodPut, "queue", queueID)
}

// UnwatchQueue removes a queue subscription.
func (l *Listener) UnwatchQueue(ctx context.Context, queueID string) error {
	return l.watch(ctx, http.MethodDelete, "queue", queueID)
}

func (l *Listener) watch(ctx context.Context, method, resource, id string) error {
	if err := requireID(resource+" ID", id); err != nil {
		return err
	}
	path := "listen/" + l.channelID + "/" + resource + "/" + id
	return l.client.do(ctx, method, path, nil, nil, nil)
}

// consume reads the SSE stream and delivers parsed events. The event name is
// "<resource>:<id>"; the data line carries the JSON payload.
func (l *Listener) consume() {
	defer close(l.events)

	scanner := bufio.NewScanner(l.stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event != "" && data != "" {
				if !l.deliver(event, data) {
					return
				}
			}
			event, data = "", ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		// comment lines (":keepalive") and unknown fields are ignored
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := scanner.Err(); err != nil && !l.closed {
		l.err = httpclient.ErrTransport.MsgErr("event stream ended", err)
	}
	l.closed = true
}

// deliver hands one event to the consumer. It reports false when the Listener
// was closed before the consumer took the event, so consume never blocks on a
// caller that stopped draining.
func (l *Listener) deliver(event, data string) bool {
	resource, id, _ := strings.Cut(event, ":")

	var payload any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		payload = data
	}

	select {
	case l.events <- WatchEvent{
		Resource: resource,
		ID:       id,
		Data:     payload,
	}:
		return true
	case <-l.done:
		return false
	}
}
