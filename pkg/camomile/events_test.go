package camomile_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

func waitForEvent(t *testing.T, listener *camomile.Listener) camomile.WatchEvent {
	t.Helper()
	select {
	case event, ok := <-listener.Events():
		require.True(t, ok, "event channel closed early: %v", listener.Err())
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return camomile.WatchEvent{}
	}
}

func TestListenDeliversCorpusEvents(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	listener, err := client.Listen(ctx)
	require.NoError(t, err)
	defer listener.Close()
	assert.NotEmpty(t, listener.ChannelID())

	require.NoError(t, listener.WatchCorpus(ctx, corpus.ID))

	_, err = client.UpdateCorpus(ctx, corpus.ID, camomile.CorpusUpdate{Name: "debates"})
	require.NoError(t, err)

	event := waitForEvent(t, listener)
	assert.Equal(t, "corpus", event.Resource)
	assert.Equal(t, corpus.ID, event.ID)

	payload, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "update", payload["event"])
}

func TestListenDeliversQueueEvents(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	queue, err := client.CreateQueue(ctx, camomile.QueueOptions{Name: "to-annotate"})
	require.NoError(t, err)

	listener, err := client.Listen(ctx)
	require.NoError(t, err)
	defer listener.Close()
	require.NoError(t, listener.WatchQueue(ctx, queue.ID))

	require.NoError(t, client.Enqueue(ctx, queue.ID, "item"))

	event := waitForEvent(t, listener)
	assert.Equal(t, "queue", event.Resource)
	assert.Equal(t, queue.ID, event.ID)
}

func TestUnwatchStopsDelivery(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)
	other, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "debates"})
	require.NoError(t, err)

	listener, err := client.Listen(ctx)
	require.NoError(t, err)
	defer listener.Close()

	require.NoError(t, listener.WatchCorpus(ctx, corpus.ID))
	require.NoError(t, listener.WatchCorpus(ctx, other.ID))
	require.NoError(t, listener.UnwatchCorpus(ctx, corpus.ID))

	// only the still-watched corpus produces an event
	_, err = client.UpdateCorpus(ctx, corpus.ID, camomile.CorpusUpdate{Name: "archived"})
	require.NoError(t, err)
	_, err = client.UpdateCorpus(ctx, other.ID, camomile.CorpusUpdate{Name: "published"})
	require.NoError(t, err)

	event := waitForEvent(t, listener)
	assert.Equal(t, other.ID, event.ID)
}

func TestListenerCloseEndsEventChannel(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	listener, err := client.Listen(ctx)
	require.NoError(t, err)
	require.NoError(t, listener.Close())
	require.NoError(t, listener.Close(), "close must be idempotent")

	select {
	case _, ok := <-listener.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event channel not closed after Close")
	}
	assert.NoError(t, listener.Err())
}

func TestCloseReleasesUndrainedListener(t *testing.T) {
	// A hand-rolled server floods the stream with more events than the
	// listener buffers. The caller never drains, then closes: the consumer
	// must let go of the pending event and close the channel.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/listen":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"channel_id": "ch1"}`))
		case "/listen/ch1":
			w.Header().Set("Content-Type", "text/event-stream")
			for i := 0; i < 40; i++ {
				fmt.Fprint(w, "event: corpus:c1\ndata: {\"event\": \"update\"}\n\n")
			}
			w.(http.Flusher).Flush()
			<-r.Context().Done()
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)

	listener, err := client.Listen(context.Background())
	require.NoError(t, err)

	// give the consumer time to fill its buffer and block on the next send
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, listener.Close())

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-listener.Events():
			if !ok {
				assert.NoError(t, listener.Err())
				return
			}
		case <-deadline:
			t.Fatal("event channel not closed after Close")
		}
	}
}

func TestWatchRequiresID(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")

	listener, err := client.Listen(context.Background())
	require.NoError(t, err)
	defer listener.Close()

	assert.ErrorIs(t, listener.WatchCorpus(context.Background(), ""), camomile.ErrInvalidOptions)
	assert.ErrorIs(t, listener.WatchMedium(context.Background(), ""), camomile.ErrInvalidOptions)
}
