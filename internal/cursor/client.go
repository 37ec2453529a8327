// Package cursor is a client for the Cursor Admin API.
//
// The API's exact contract varies by deployment and version: endpoint
// paths have moved, request payloads have changed shape, and response
// envelopes differ. The client masks that behind a fixed interface by
// trying an ordered list of endpoint and payload candidates and
// returning the first success (see fallback.go).
package cursor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.cursor.com"

// ErrMissingAPIKey is returned by NewClient when the API key is empty.
// The credential is validated before any request is attempted.
var ErrMissingAPIKey = errors.New("cursor: API key must not be empty")

// Client is an HTTP client for the Cursor Admin API. Authentication is
// HTTP Basic with the API key as username and an empty password.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (useful for testing and
// self-hosted deployments).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Admin API client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		userAgent: "cursorwatch/1.0",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response from the upstream API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("cursor: %s returned %d: %s", e.Endpoint, e.StatusCode, body)
}

// Summary is the error without the upstream response body. Error keeps
// the body for logs; user-facing messages use Summary so raw upstream
// output never reaches the terminal.
func (e *APIError) Summary() string {
	return fmt.Sprintf("cursor: %s returned %d", e.Endpoint, e.StatusCode)
}

// FallbackError is returned when every endpoint/payload combination in
// a fallback search has failed. Last carries the final underlying
// error for diagnostics.
type FallbackError struct {
	Attempts int
	Last     error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("cursor: all %d endpoint/payload combinations failed, last error: %v", e.Attempts, e.Last)
}

// Unwrap returns the last underlying error.
func (e *FallbackError) Unwrap() error { return e.Last }

// Summary is the error with any upstream response body stripped from
// the last underlying failure.
func (e *FallbackError) Summary() string {
	last := "unknown"
	var apiErr *APIError
	switch {
	case errors.As(e.Last, &apiErr):
		last = apiErr.Summary()
	case e.Last != nil:
		last = e.Last.Error()
	}
	return fmt.Sprintf("cursor: all %d endpoint/payload combinations failed, last error: %s", e.Attempts, last)
}

// do issues a single request and returns the response body. Any body
// is JSON-encoded; non-2xx statuses become an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   method + " " + path,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
