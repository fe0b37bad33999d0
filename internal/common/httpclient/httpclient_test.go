package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	serverURL string
	token     string
}

func (c *testConfig) GetServerURL() string { return c.serverURL }
func (c *testConfig) GetToken() string     { return c.token }

func TestDoSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/corpus", r.URL.Path)
		assert.Equal(t, "on", r.URL.Query().Get("history"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"abc"}]`))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	body, err := client.Do(context.Background(), RequestOptions{
		Method:      http.MethodGet,
		Path:        "corpus",
		QueryParams: map[string]string{"history": "on"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"abc"}]`, string(body))
}

func TestDoAttachesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL, token: "abc123"})
	_, err := client.Do(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "me",
	})
	require.NoError(t, err)
}

func TestDoNoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.Do(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "date",
	})
	require.NoError(t, err)
}

func TestDoErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   error
		wantMsg    string
	}{
		{"json error field", http.StatusNotFound, `{"error":"no such corpus"}`, ErrRequestFailed, "no such corpus"},
		{"json message field", http.StatusConflict, `{"message":"duplicate name"}`, ErrRequestFailed, "duplicate name"},
		{"plain text body", http.StatusInternalServerError, "something broke", ErrRequestFailed, "something broke"},
		{"empty body", http.StatusBadRequest, "", ErrRequestFailed, ""},
		{"unauthorized", http.StatusUnauthorized, `{"error":"not logged in"}`, ErrAuthorization, "not logged in"},
		{"forbidden", http.StatusForbidden, `{"error":"no right"}`, ErrAuthorization, "no right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(&testConfig{serverURL: srv.URL})
			_, err := client.Do(context.Background(), RequestOptions{
				Method: http.MethodGet,
				Path:   "corpus/xyz",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, err.Error())

			var statusErr interface{ StatusCode() int }
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.statusCode, statusErr.StatusCode())
		})
	}
}

func TestDoNon2xxIsError(t *testing.T) {
	// net/http resolves redirects itself; a 3xx that survives, like 304,
	// still fails the request.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.Do(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "corpus",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var statusErr interface{ StatusCode() int }
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotModified, statusErr.StatusCode())
}

func TestDoTransportError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.Do(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "corpus",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrRequestFailed)
}

func TestDoKeepsSessionCookie(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "camomile.sid", Value: "s3cr3t"})
			w.Write([]byte(`{"success":"Authentication succeeded"}`))
		default:
			if c, err := r.Cookie("camomile.sid"); err == nil && c.Value == "s3cr3t" {
				sawCookie = true
			}
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.Do(context.Background(), RequestOptions{Method: http.MethodPost, Path: "login"})
	require.NoError(t, err)
	_, err = client.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "corpus"})
	require.NoError(t, err)
	assert.True(t, sawCookie, "session cookie not replayed")

	client.ClearSession()
	sawCookie = false
	_, err = client.Do(context.Background(), RequestOptions{Method: http.MethodGet, Path: "corpus"})
	require.NoError(t, err)
	assert.False(t, sawCookie, "session cookie survived ClearSession")
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("chunk"))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	rc, err := client.Stream(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "medium/abc/webm",
	})
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 16)
	n, _ := rc.Read(buf)
	assert.Equal(t, "chunk", string(buf[:n]))
}
