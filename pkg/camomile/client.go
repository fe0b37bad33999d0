package camomile

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/camomile-project/camomile-go/internal/common/httpclient"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

// Client is a session with a Camomile server. It holds the base URL and the
// credentials obtained by Login, and exposes one method per REST route.
// The zero value is not usable; create instances with New.
type Client struct {
	serverURL string
	token     string
	username  string
	transport *httpclient.Client
	logger    zerolog.Logger
}

// Option configures a Client at construction.
type Option func(*clientConfig)

type clientConfig struct {
	logger             zerolog.Logger
	timeout            time.Duration
	insecureSkipVerify bool
	token              string
}

// WithLogger attaches a zerolog logger; the client logs each request at debug
// level. Logging is disabled by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTimeout sets a per-request timeout. Zero, the default, leaves the
// transport's own defaults in place.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate validation, for servers
// running on self-signed certificates.
func WithInsecureSkipVerify() Option {
	return func(c *clientConfig) {
		c.insecureSkipVerify = true
	}
}

// WithToken resumes a session from a previously issued token, skipping Login.
// The token is sent as a bearer header on every request.
func WithToken(token string) Option {
	return func(c *clientConfig) {
		c.token = token
	}
}

// New creates a client for the Camomile server at serverURL.
// No network activity occurs until the first call.
func New(serverURL string, opts ...Option) (*Client, error) {
	serverURL = strings.TrimRight(serverURL, "/")
	if serverURL == "" {
		return nil, ErrInvalidOptions.New("server URL is required")
	}
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		return nil, ErrInvalidOptions.New("server URL must start with http:// or https://")
	}

	config := clientConfig{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	c := &Client{
		serverURL: serverURL,
		token:     config.token,
		logger:    config.logger,
	}
	c.transport = httpclient.NewClient(c, httpclient.ClientOptions{
		DisableCertValidation: config.insecureSkipVerify,
		Timeout:               config.timeout,
	})
	return c, nil
}

// GetServerURL implements httpclient.Configurator.
func (c *Client) GetServerURL() string {
	return c.serverURL
}

// GetToken implements httpclient.Configurator.
func (c *Client) GetToken() string {
	return c.token
}

// Username returns the name of the logged-in user, or "" before Login.
func (c *Client) Username() string {
	return c.username
}

// do issues one request and decodes the JSON response into out when out is
// non-nil and the response carries a body. A body that fails to decode is a
// serialization error; an absent body is not.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return ErrInvalidOptions.MsgErr("cannot encode request body", err)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("camomile request")

	respBody, err := c.transport.Do(ctx, httpclient.RequestOptions{
		Method:      method,
		Path:        path,
		QueryParams: query,
		Body:        raw,
	})
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("camomile request failed")
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return ErrSerialization.MsgErr("cannot decode response body", err)
	}
	return nil
}

// stream issues one request and hands the response body to the caller
// unread.
func (c *Client) stream(ctx context.Context, method, path string, query map[string]string) (io.ReadCloser, error) {
	c.logger.Debug().Str("method", method).Str("path", path).Msg("camomile stream request")
	return c.transport.Stream(ctx, httpclient.RequestOptions{
		Method:      method,
		Path:        path,
		QueryParams: query,
	})
}

// checkOptions validates an option struct before any request is issued.
func checkOptions(opts any) error {
	if err := validate.Struct(opts); err != nil {
		return ErrInvalidOptions.MsgErr("option validation failed", err)
	}
	return nil
}

// requireID rejects calls with a missing identifier before any request is
// issued. The client never validates identifiers beyond non-emptiness.
func requireID(name, id string) error {
	if id == "" {
		return ErrInvalidOptions.New(name + " is required")
	}
	return nil
}

// Login authenticates with the server and stores the session credentials on
// the client. It returns the session token when the server issues one in the
// response body; cookie-based servers return an empty token and the session
// cookie is held by the transport. Any failure is an authentication error.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", ErrInvalidOptions.New("username is required")
	}

	body := map[string]string{
		"username": username,
		"password": password,
	}

	respBody, err := c.transport.Do(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "login",
		Body:   mustMarshal(body),
	})
	if err != nil {
		// Every login failure is an authentication error. Rejections keep the
		// server's status code and message; transport failures stay matchable
		// as ErrTransport underneath and carry no status code, since the
		// server never answered.
		if code := StatusCode(err); code != 0 {
			return "", httpclient.ErrAuthorization.New(err.Error()).SetStatusCode(code)
		}
		return "", httpclient.ErrAuthorization.MsgErr("login failed", err).SetStatusCode(0)
	}

	c.token = gjson.GetBytes(respBody, "token").String()
	c.username = username
	c.logger.Debug().Str("username", username).Msg("logged in")
	return c.token, nil
}

// Logout invalidates the session server-side and clears the local
// credentials. Calling it without an active session is a no-op: the local
// state is cleared and no error is returned for an authorization rejection.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "logout", nil, nil, nil)

	c.token = ""
	c.username = ""
	c.transport.ClearSession()

	if err != nil && StatusCode(err) == http.StatusUnauthorized {
		return nil
	}
	return err
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the logged-in user's password.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidOptions.New("password is required")
	}
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "me", nil, body, nil)
}

// MyGroups returns the groups the logged-in user belongs to.
func (c *Client) MyGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.do(ctx, http.MethodGet, "me/group", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Date returns the server's current date, as the server formats it.
func (c *Client) Date(ctx context.Context) (string, error) {
	var resp struct {
		Date string `json:"date"`
	}
	if err := c.do(ctx, http.MethodGet, "date", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Date, nil
}

// Version returns the server and API version document.
func (c *Client) Version(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.do(ctx, http.MethodGet, "version", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// mustMarshal is for bodies built from maps of strings, which cannot fail to
// encode.
func mustMarshal(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}
