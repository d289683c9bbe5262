package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:3001/api"

	PathMe      = "/auth/me"
	PathRefresh = "/auth/refresh"
	PathLogin   = "/auth/login"
	PathSignup  = "/auth/signup"
	PathLogout  = "/auth/logout"

	LoginPage     = "/login"
	DashboardPage = "/dashboard"
)

// Navigator performs page navigation on behalf of the client.
type Navigator interface {
	// Push is an in-app navigation.
	Push(path string)
	// HardRedirect abandons in-memory state and reloads at path.
	HardRedirect(path string)
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to the API with cookie credentials and refreshes the session
// once when a request comes back 401.
type Client struct {
	baseURL    string
	httpClient *http.Client
	navigator  Navigator
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "client").Logger()
	}
}

// New creates a client with its own cookie jar. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, navigator Navigator, options ...Option) (*Client, error) {
	if navigator == nil {
		return nil, errors.New("[client.New] navigator is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[client.New] cookie jar")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		navigator:  navigator,
		logger:     log.Logger.With().Str("component", "client").Logger(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

// retryState belongs to one logical request and survives its replay.
type retryState struct {
	refreshed bool
}

// Do sends a JSON request and decodes a 2xx body into out (which may be nil).
// A 401 triggers one refresh and one replay, except on the session probe and
// the refresh endpoint itself. A failed refresh hard-redirects to the login
// page and returns the refresh error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "[Client.Do] encode body")
		}
	}
	return c.do(ctx, method, path, payload, out, &retryState{})
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any, state *retryState) error {
	err := c.send(ctx, method, path, payload, out)
	if err == nil || !IsUnauthorized(err) || state.refreshed || !refreshable(path) {
		return err
	}

	state.refreshed = true
	if refreshErr := c.send(ctx, http.MethodPost, PathRefresh, nil, nil); refreshErr != nil {
		c.logger.Debug().Err(refreshErr).Str("path", path).Msg("session refresh failed")
		c.navigator.HardRedirect(LoginPage)
		return refreshErr
	}
	return c.do(ctx, method, path, payload, out, state)
}

func refreshable(path string) bool {
	return !strings.Contains(path, PathMe) && !strings.Contains(path, PathRefresh)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[Client.send] new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.send] %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[Client.send] read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(raw, out), "[Client.send] decode body")
}
