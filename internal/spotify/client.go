// Package spotify is a small Web API client covering what the game needs:
// the currently playing track, the active playlist and starting playback.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Sentinel errors returned by Client methods.
var (
	ErrNoToken         = errors.New("spotify: no access token")
	ErrNothingPlaying  = errors.New("spotify: nothing is playing")
	ErrNoPlaylist      = errors.New("spotify: not playing from a playlist")
	ErrUnauthorized    = errors.New("spotify: access token rejected")
	ErrPremiumRequired = errors.New("spotify: premium is required to control playback")
)

// APIError is a non-2xx response from the Web API.
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("spotify: %d %s (%s)", e.StatusCode, msg, e.Reason)
	}
	return fmt.Sprintf("spotify: %d %s", e.StatusCode, msg)
}

// Is maps well-known responses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrPremiumRequired:
		return e.StatusCode == http.StatusForbidden && e.Reason == "PREMIUM_REQUIRED"
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client talks to the Spotify Web API with a bearer token.
// A Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  log.New(io.Discard),
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the access token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// HasToken reports whether an access token is configured.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// do sends a request and decodes a JSON response into out (if non-nil).
// It returns the response status code; 204 leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return 0, ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("spotify: cannot encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("spotify: cannot build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("spotify: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("spotify request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeAPIError(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // Best-effort drain for connection reuse
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, fmt.Errorf("spotify: cannot decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

// decodeAPIError builds an APIError from an error response. Spotify nests
// the error object; a top-level reason is accepted as well.
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error  json.RawMessage `json:"error"`
		Reason string          `json:"reason"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || json.Unmarshal(data, &payload) != nil {
		return apiErr
	}
	apiErr.Reason = payload.Reason

	var nested struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if json.Unmarshal(payload.Error, &nested) == nil {
		apiErr.Message = nested.Message
		if nested.Reason != "" {
			apiErr.Reason = nested.Reason
		}
	} else {
		var msg string
		if json.Unmarshal(payload.Error, &msg) == nil {
			apiErr.Message = msg
		}
	}
	return apiErr
}
