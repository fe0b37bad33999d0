package camomile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

func TestCorpusPermissions(t *testing.T) {
	client, mock := newTestClient(t)
	ownerID := loginAs(t, client, mock, "anna", "user")
	readerID := mock.AddUser("bob", "s3cret", "user")
	ctx := context.Background()

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)

	// the creator holds admin right from the start
	perms, err := client.GetCorpusPermissions(ctx, corpus.ID)
	require.NoError(t, err)
	assert.Equal(t, camomile.RightAdmin, perms.Users[ownerID])

	perms, err = client.SetCorpusPermissionForUser(ctx, corpus.ID, readerID, camomile.RightRead)
	require.NoError(t, err)
	assert.Equal(t, camomile.RightRead, perms.Users[readerID])

	perms, err = client.SetCorpusPermissionForUser(ctx, corpus.ID, readerID, camomile.RightWrite)
	require.NoError(t, err)
	assert.Equal(t, camomile.RightWrite, perms.Users[readerID])

	perms, err = client.RemoveCorpusPermissionForUser(ctx, corpus.ID, readerID)
	require.NoError(t, err)
	assert.NotContains(t, perms.Users, readerID)
	assert.Equal(t, camomile.RightAdmin, perms.Users[ownerID])
}

func TestLayerPermissionsForGroup(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "root", "admin")
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, camomile.GroupOptions{Name: "annotators"})
	require.NoError(t, err)

	corpus, err := client.CreateCorpus(ctx, camomile.CorpusOptions{Name: "interviews"})
	require.NoError(t, err)
	layer, err := client.AddLayer(ctx, corpus.ID, camomile.LayerOptions{
		Name:         "speech",
		FragmentType: "segment",
		DataType:     "label",
	})
	require.NoError(t, err)

	perms, err := client.SetLayerPermissionForGroup(ctx, layer.ID, group.ID, camomile.RightWrite)
	require.NoError(t, err)
	assert.Equal(t, camomile.RightWrite, perms.Groups[group.ID])

	perms, err = client.GetLayerPermissions(ctx, layer.ID)
	require.NoError(t, err)
	assert.Equal(t, camomile.RightWrite, perms.Groups[group.ID])

	perms, err = client.RemoveLayerPermissionForGroup(ctx, layer.ID, group.ID)
	require.NoError(t, err)
	assert.NotContains(t, perms.Groups, group.ID)
}

func TestSetPermissionRejectsInvalidRight(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SetCorpusPermissionForUser(context.Background(), "c1", "u1", 4)
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)

	_, err = client.SetLayerPermissionForUser(context.Background(), "l1", "u1", 0)
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)
}

func TestRightString(t *testing.T) {
	assert.Equal(t, "read", camomile.RightRead.String())
	assert.Equal(t, "write", camomile.RightWrite.String())
	assert.Equal(t, "admin", camomile.RightAdmin.String())
	assert.Equal(t, "7", camomile.Right(7).String())
}
