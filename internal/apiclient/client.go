// Package apiclient is the JSON HTTP client every domain service goes through.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ukydev/fleet-rental-console/internal/middleware"
)

// GenericMessage is shown when a failure carries nothing more specific.
const GenericMessage = "Something went wrong. Please try again."

// ErrNetwork marks failures where no response came back from the server.
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx response. Body holds the parsed JSON error body, or
// the raw text when the body was not JSON.
type APIError struct {
	StatusCode int
	Body       interface{}
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// UserMessage returns the text to show a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return "Unable to reach the server. Please check your connection and try again."
	}
	return GenericMessage
}

// Client issues authenticated JSON requests against a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTransport sets the base transport the middleware chain wraps.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithMiddleware wraps the current transport with mws.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) { c.http.Transport = middleware.Chain(c.http.Transport, mws...) }
}

// New creates a client for baseURL. Options apply in order, so pass
// WithTransport before WithMiddleware.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Do sends a JSON request. out may be nil, a *json.RawMessage, or any value
// json can decode into. An empty 2xx body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return apiErr
	}

	var parsed interface{}
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		apiErr.Body = string(trimmed)
		return apiErr
	}
	apiErr.Body = parsed

	switch v := parsed.(type) {
	case map[string]interface{}:
		for _, key := range []string{"message", "error"} {
			if msg, ok := v[key].(string); ok && msg != "" {
				apiErr.Message = msg
				return apiErr
			}
		}
	case string:
		if v != "" {
			apiErr.Message = v
		}
	}
	return apiErr
}
