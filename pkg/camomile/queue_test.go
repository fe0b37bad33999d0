package camomile_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

func TestQueueLifecycle(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	queue, err := client.CreateQueue(ctx, camomile.QueueOptions{Name: "to-annotate"})
	require.NoError(t, err)
	assert.NotEmpty(t, queue.ID)
	assert.Empty(t, queue.List)

	queues, err := client.GetQueues(ctx)
	require.NoError(t, err)
	assert.Len(t, queues, 1)

	n, err := client.CountQueues(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := client.UpdateQueue(ctx, queue.ID, camomile.QueueUpdate{Name: "to-review"})
	require.NoError(t, err)
	assert.Equal(t, "to-review", updated.Name)

	require.NoError(t, client.DeleteQueue(ctx, queue.ID))
	_, err = client.GetQueue(ctx, queue.ID)
	assert.Equal(t, http.StatusNotFound, camomile.StatusCode(err))
}

func TestQueueRotationIsFIFO(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	queue, err := client.CreateQueue(ctx, camomile.QueueOptions{Name: "to-annotate"})
	require.NoError(t, err)

	require.NoError(t, client.Enqueue(ctx, queue.ID, "first", "second"))
	require.NoError(t, client.Enqueue(ctx, queue.ID, "third"))

	n, err := client.PickLength(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// PickAll peeks without consuming
	items, err := client.PickAll(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second", "third"}, items)

	for _, want := range []string{"first", "second", "third"} {
		item, err := client.Pick(ctx, queue.ID)
		require.NoError(t, err)
		assert.Equal(t, want, item)
	}

	n, err = client.PickLength(ctx, queue.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPickEmptyQueue(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	queue, err := client.CreateQueue(ctx, camomile.QueueOptions{Name: "to-annotate"})
	require.NoError(t, err)

	_, err = client.Pick(ctx, queue.ID)
	require.ErrorIs(t, err, camomile.ErrRequest)
	assert.Equal(t, http.StatusBadRequest, camomile.StatusCode(err))
}

func TestCreateQueueSeedsList(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	queue, err := client.CreateQueue(ctx, camomile.QueueOptions{
		Name: "to-annotate",
		List: []any{"seed-1", "seed-2"},
	})
	require.NoError(t, err)

	item, err := client.Pick(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, "seed-1", item)
}

func TestEnqueueValidation(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Enqueue(context.Background(), "q1")
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)

	err = client.Enqueue(context.Background(), "", "item")
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)
}
