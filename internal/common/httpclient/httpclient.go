// Package httpclient provides the HTTP transport used by the Camomile client.
// It builds requests from a method/path/query/body descriptor, attaches the
// current session credentials, and maps failures onto distinct error kinds so
// callers can tell a refused connection from a rejected request.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"time"

	"github.com/camomile-project/camomile-go/internal/common/apperrors"
	"github.com/tidwall/gjson"
)

// Error kinds returned by the transport. All carry the HTTP status code of the
// response where one was received; ErrTransport never carries one.
var (
	// ErrTransport indicates the request never produced an HTTP response:
	// connection refused, timeout, DNS failure, or a cancelled context.
	ErrTransport = apperrors.New("transport error")

	// ErrRequestFailed indicates the server answered with a non-2xx status.
	ErrRequestFailed = apperrors.New("request failed")

	// ErrAuthorization indicates the server rejected the request for lack of
	// or invalid credentials (401 or 403).
	ErrAuthorization = apperrors.New("authorization failed").SetStatusCode(http.StatusUnauthorized)
)

// Configurator provides the server URL and session token for each request.
// The Camomile client implements it; tests may substitute their own.
type Configurator interface {
	GetServerURL() string
	GetToken() string
}

// Client is the HTTP transport. A cookie jar holds the server-issued session
// cookie across requests; a bearer token is attached in addition whenever the
// Configurator holds one.
type Client struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions configures transport construction.
type ClientOptions struct {
	DisableCertValidation bool          // skip TLS certificate validation
	Timeout               time.Duration // per-request timeout, 0 uses net/http defaults
}

// NewClient creates a transport for the given configuration.
// No network activity occurs at construction.
func NewClient(config Configurator, opts ...ClientOptions) *Client {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}

	jar, _ := cookiejar.New(nil)
	httpClient := &http.Client{
		Jar:     jar,
		Timeout: clientOpts.Timeout,
	}
	if clientOpts.DisableCertValidation {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// ClearSession drops the session cookie held by the transport's cookie jar.
func (c *Client) ClearSession() {
	jar, _ := cookiejar.New(nil)
	c.httpClient.Jar = jar
}

// RequestOptions describes a single request. Method and Path are required;
// QueryParams and Body are optional. The descriptor is consumed per call.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST, PUT, DELETE)
	Path        string            // endpoint path relative to the server URL
	QueryParams map[string]string // optional query parameters
	Body        []byte            // optional JSON request body
}

// Do makes an HTTP request with the given options.
// For 2xx responses it returns the raw response body unchanged. Any other
// status is an error derived from ErrRequestFailed (or ErrAuthorization for
// 401/403) carrying the status code and the best-effort message extracted
// from the body; redirects are followed by net/http, so a 3xx surfacing here
// is one the transport could not resolve. Failures before a response is
// received derive from ErrTransport.
func (c *Client) Do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	req, err := c.newRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrTransport.MsgErr("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrTransport.MsgErr("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, body)
	}

	return body, nil
}

// Stream makes an HTTP request and returns the response body as a stream.
// Used for media downloads and the event channel. The caller must close the
// returned reader. Error mapping matches Do.
func (c *Client) Stream(ctx context.Context, opts RequestOptions) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrTransport.MsgErr("request failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, responseError(resp.StatusCode, body)
	}

	return resp.Body, nil
}

// newRequest builds the request from the descriptor: joins the base URL and
// path, encodes the query, and attaches credentials.
func (c *Client) newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, ErrRequestFailed.MsgErr("invalid server URL", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bytes.NewReader(opts.Body))
	if err != nil {
		return nil, ErrRequestFailed.MsgErr("failed to create request", err)
	}
	if len(opts.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.config.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// responseError maps a non-2xx response onto an error kind. The message is the
// JSON "error" or "message" field when the body carries one, else the raw body
// text. A response with no body at all yields an empty message, never a
// secondary failure.
func responseError(statusCode int, body []byte) error {
	msg := string(body)
	if v := gjson.GetBytes(body, "error"); v.Exists() {
		msg = v.String()
	} else if v := gjson.GetBytes(body, "message"); v.Exists() {
		msg = v.String()
	}

	kind := ErrRequestFailed
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		kind = ErrAuthorization
	}
	return kind.New(msg).SetStatusCode(statusCode)
}
