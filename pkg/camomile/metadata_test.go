package camomile_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

func TestMetadataRoundTrip(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	err = client.SetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, map[string]any{
		"recording": map[string]any{
			"studio": "A",
			"year":   2024,
		},
	})
	require.NoError(t, err)

	value, err := client.GetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "recording.studio")
	require.NoError(t, err)
	assert.Equal(t, "A", value)

	tree, err := client.GetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "")
	require.NoError(t, err)
	root, ok := tree.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, root, "recording")
}

func TestMetadataMerge(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	require.NoError(t, client.SetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, map[string]any{
		"recording": map[string]any{"studio": "A"},
	}))
	require.NoError(t, client.SetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, map[string]any{
		"recording": map[string]any{"year": 2024},
	}))

	// the second write merges into the subtree instead of replacing it
	value, err := client.GetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "recording.studio")
	require.NoError(t, err)
	assert.Equal(t, "A", value)
}

func TestMetadataKeys(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	require.NoError(t, client.SetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, map[string]any{
		"recording": map[string]any{"studio": "A", "year": 2024},
	}))

	keys, err := client.MetadataKeys(ctx, camomile.MetadataCorpus, corpus.ID, "recording")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"studio", "year"}, keys)
}

func TestDeleteMetadata(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	require.NoError(t, client.SetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, map[string]any{
		"recording": map[string]any{"studio": "A", "year": 2024},
	}))
	require.NoError(t, client.DeleteMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "recording.studio"))

	_, err = client.GetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "recording.studio")
	assert.Equal(t, http.StatusNotFound, camomile.StatusCode(err))

	value, err := client.GetMetadata(ctx, camomile.MetadataCorpus, corpus.ID, "recording.year")
	require.NoError(t, err)
	assert.EqualValues(t, 2024, value)
}

func TestMediumMetadata(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)
	medium, err := client.AddMedium(ctx, corpus.ID, camomile.MediumOptions{Name: "episode-1"})
	require.NoError(t, err)

	require.NoError(t, client.SetMetadata(ctx, camomile.MetadataMedium, medium.ID, map[string]any{
		"duration": 3600,
	}))
	value, err := client.GetMetadata(ctx, camomile.MetadataMedium, medium.ID, "duration")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, value)
}

func TestMetadataValidation(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetMetadata(ctx, "annotation", "a1", "key")
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)

	err = client.SetMetadata(ctx, camomile.MetadataCorpus, "c1", nil)
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)

	err = client.DeleteMetadata(ctx, camomile.MetadataCorpus, "c1", "")
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)
}
