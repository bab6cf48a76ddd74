package bitbrowser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "http://127.0.0.1:54345"
	defaultTimeout   = 30 * time.Second
	defaultResetWait = 5 * time.Second
)

// Client is a BitBrowser local API client. It controls antidetect
// browser profiles that posters drive during publishing.
type Client struct {
	baseURL    string
	httpClient *http.Client
	resetWait  time.Duration
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithResetWait sets the settle pause between close and reopen during
// a profile reset.
func WithResetWait(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.resetWait = d
		}
	}
}

// New creates a new BitBrowser API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		resetWait: defaultResetWait,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error reported by the BitBrowser API
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitbrowser API error: %s", e.Message)
}

// envelope is the common response wrapper of the BitBrowser API.
type envelope struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// OpenOutput represents the connection details of an opened profile
type OpenOutput struct {
	WSEndpoint string `json:"ws"`
	HTTP       string `json:"http"`
	Driver     string `json:"driver"`
}

// Open launches a browser profile and returns its debugging endpoints.
func (c *Client) Open(ctx context.Context, profileID string) (*OpenOutput, error) {
	var out OpenOutput
	if err := c.post(ctx, "/browser/open", profileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Close shuts a browser profile down.
func (c *Client) Close(ctx context.Context, profileID string) error {
	return c.post(ctx, "/browser/close", profileID, nil)
}

// Reset force-restarts a profile: close it, wait for the process to
// settle, then reopen. Closing a profile that is not running is not an
// error.
func (c *Client) Reset(ctx context.Context, profileID string) error {
	if err := c.Close(ctx, profileID); err != nil {
		return fmt.Errorf("closing profile %s: %w", profileID, err)
	}

	timer := time.NewTimer(c.resetWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if _, err := c.Open(ctx, profileID); err != nil {
		return fmt.Errorf("reopening profile %s: %w", profileID, err)
	}

	return nil
}

// post executes a profile request and decodes the data payload into out
func (c *Client) post(ctx context.Context, path, profileID string, out interface{}) error {
	payload, err := json.Marshal(map[string]string{"id": profileID})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		return &APIError{Message: env.Msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}

	return nil
}
