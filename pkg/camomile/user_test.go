package camomile_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

func TestUserManagement(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "root", "admin")
	ctx := context.Background()

	user, err := client.CreateUser(ctx, camomile.UserOptions{
		Username: "anna",
		Password: "s3cret",
		Role:     camomile.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "anna", user.Username)

	got, err := client.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Username)

	users, err := client.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2) // root and anna

	updated, err := client.UpdateUser(ctx, user.ID, camomile.UserUpdate{Role: camomile.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, camomile.RoleAdmin, updated.Role)

	require.NoError(t, client.DeleteUser(ctx, user.ID))
	_, err = client.GetUser(ctx, user.ID)
	assert.Equal(t, http.StatusNotFound, camomile.StatusCode(err))
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")

	_, err := client.CreateUser(context.Background(), camomile.UserOptions{
		Username: "bob",
		Password: "s3cret",
		Role:     camomile.RoleUser,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, camomile.StatusCode(err))
}

func TestCreateUserValidation(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.CreateUser(context.Background(), camomile.UserOptions{
		Username: "bob",
		Password: "s3cret",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)

	_, err = client.CreateUser(context.Background(), camomile.UserOptions{Username: "bob"})
	assert.ErrorIs(t, err, camomile.ErrInvalidOptions)
}

func TestGroupMembership(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "root", "admin")
	annaID := mock.AddUser("anna", "s3cret", "user")
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, camomile.GroupOptions{Name: "annotators"})
	require.NoError(t, err)

	added, err := client.AddUserToGroup(ctx, group.ID, annaID)
	require.NoError(t, err)
	assert.Contains(t, added.Users, annaID)

	groups, err := client.UserGroups(ctx, annaID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "annotators", groups[0].Name)

	removed, err := client.RemoveUserFromGroup(ctx, group.ID, annaID)
	require.NoError(t, err)
	assert.NotContains(t, removed.Users, annaID)

	groups, err = client.UserGroups(ctx, annaID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestMyGroups(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "root", "admin")
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, camomile.GroupOptions{Name: "annotators"})
	require.NoError(t, err)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	_, err = client.AddUserToGroup(ctx, group.ID, me.ID)
	require.NoError(t, err)

	groups, err := client.MyGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)
}

func TestGroupLifecycle(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "root", "admin")
	ctx := context.Background()

	group, err := client.CreateGroup(ctx, camomile.GroupOptions{Name: "annotators"})
	require.NoError(t, err)

	updated, err := client.UpdateGroup(ctx, group.ID, camomile.GroupUpdate{Name: "reviewers"})
	require.NoError(t, err)
	assert.Equal(t, "reviewers", updated.Name)

	groups, err := client.GetGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	require.NoError(t, client.DeleteGroup(ctx, group.ID))
	_, err = client.GetGroup(ctx, group.ID)
	assert.Equal(t, http.StatusNotFound, camomile.StatusCode(err))
}
