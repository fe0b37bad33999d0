package camomile_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camomile-project/camomile-go/internal/camomiletest"
	"github.com/camomile-project/camomile-go/pkg/camomile"
)

// newTestClient starts an in-memory server and returns a client pointed at
// it. The server is torn down with the test.
func newTestClient(t *testing.T) (*camomile.Client, *camomiletest.Server) {
	t.Helper()
	mock := camomiletest.NewServer()
	srv := httptest.NewServer(mock.Router)
	t.Cleanup(srv.Close)

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)
	return client, mock
}

// loginAs seeds an account and logs the client in, returning the user ID.
func loginAs(t *testing.T, client *camomile.Client, mock *camomiletest.Server, username, role string) string {
	t.Helper()
	userID := mock.AddUser(username, "s3cret", role)
	_, err := client.Login(context.Background(), username, "s3cret")
	require.NoError(t, err)
	return userID
}

func TestNewRejectsBadServerURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "camomile.example.org"},
		{"wrong scheme", "ftp://camomile.example.org"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := camomile.New(tc.url)
			assert.ErrorIs(t, err, camomile.ErrInvalidOptions)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddUser("anna", "s3cret", "user")

	token, err := client.Login(context.Background(), "anna", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "anna", client.Username())

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anna", me.Username)
	assert.Equal(t, "user", me.Role)
}

func TestLoginFailure(t *testing.T) {
	client, mock := newTestClient(t)
	mock.AddUser("anna", "s3cret", "user")

	_, err := client.Login(context.Background(), "anna", "wrong")
	require.ErrorIs(t, err, camomile.ErrAuthentication)
	assert.Equal(t, http.StatusUnauthorized, camomile.StatusCode(err))
	assert.Empty(t, client.Username())
}

func TestLoginTransportFailureHasNoStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "anna", "s3cret")
	require.ErrorIs(t, err, camomile.ErrAuthentication)
	assert.ErrorIs(t, err, camomile.ErrTransport)
	assert.Zero(t, camomile.StatusCode(err), "no response was received, so no status code applies")
}

func TestLoginTokenIsSentOnLaterRequests(t *testing.T) {
	// A hand-rolled server pins the exact token exchange: login answers with
	// a fixed token and the next request must carry it as a bearer header.
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": "Authentication succeeded.", "token": "abc123"}`))
		case "/me":
			sawAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"_id": "u1", "username": "anna", "role": "user"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)

	token, err := client.Login(context.Background(), "anna", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", sawAuth)
}

func TestLogoutClearsSession(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")

	require.NoError(t, client.Logout(context.Background()))
	assert.Empty(t, client.Username())

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, camomile.ErrAuthentication)
	assert.Equal(t, http.StatusUnauthorized, camomile.StatusCode(err))
}

func TestLogoutWithoutSessionIsNoOp(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Logout(context.Background()))
}

func TestUpdatePassword(t *testing.T) {
	client, mock := newTestClient(t)
	loginAs(t, client, mock, "anna", "user")

	require.NoError(t, client.UpdatePassword(context.Background(), "n3w-pass"))
	require.NoError(t, client.Logout(context.Background()))

	_, err := client.Login(context.Background(), "anna", "s3cret")
	assert.ErrorIs(t, err, camomile.ErrAuthentication)

	_, err = client.Login(context.Background(), "anna", "n3w-pass")
	assert.NoError(t, err)
}

func TestRequestsRequireSession(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.GetCorpora(context.Background())
	require.ErrorIs(t, err, camomile.ErrAuthentication)
	assert.Equal(t, http.StatusUnauthorized, camomile.StatusCode(err))
}

func TestTransportErrorIsNotARequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)

	_, err = client.GetCorpora(context.Background())
	require.ErrorIs(t, err, camomile.ErrTransport)
	assert.NotErrorIs(t, err, camomile.ErrRequest)
	assert.Zero(t, camomile.StatusCode(err))
}

func TestSerializationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"date": `)) // truncated body
	}))
	defer srv.Close()

	client, err := camomile.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Date(context.Background())
	assert.ErrorIs(t, err, camomile.ErrSerialization)
}

func TestDateAndVersion(t *testing.T) {
	client, _ := newTestClient(t)

	date, err := client.Date(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, date)

	info, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, camomiletest.ServerVersion, info.Version)
	assert.Equal(t, camomiletest.APIVersion, info.APIVersion)
}

func TestDescriptionDecode(t *testing.T) {
	desc := camomile.Description{"channel": "left", "take": 2}

	var out struct {
		Channel string
		Take    int
	}
	require.NoError(t, desc.Decode(&out))
	assert.Equal(t, "left", out.Channel)
	assert.Equal(t, 2, out.Take)
}
