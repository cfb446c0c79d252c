// Package remote is the HTTP client for the budget tracker REST service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8080"

	maxBodySize    = 1 << 20 // 1 MB
	requestIDKey   = "X-Request-ID"
)

// Client talks to the budget tracker service. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout bounds each request. By default requests have no deadline
// beyond their context and the http.Client's own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the service at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported base url scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// errorBody is the structured error form; plain-text bodies are also accepted.
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Params map[string]string `json:"params"`
}

// do performs one request. in is JSON-encoded when non-nil; out receives the
// decoded 2xx body when non-nil.
func (c *Client) do(ctx context.Context, op Op, method, path string, query url.Values, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &RemoteError{Op: op, Message: op.Fallback(), Err: fmt.Errorf("remote: encoding request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &RemoteError{Op: op, Message: op.Fallback(), Err: fmt.Errorf("remote: creating request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDKey, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", string(op)).Str("request_id", requestID).Err(err).Msg("request failed")
		return &RemoteError{Op: op, Message: op.Fallback(), Err: fmt.Errorf("remote: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: op.Fallback(), Err: fmt.Errorf("remote: reading response: %w", err)}
	}

	c.log.Debug().
		Str("op", string(op)).
		Str("method", method).
		Str("url", u.String()).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: op.Fallback(), Err: fmt.Errorf("%w: empty body", ErrMalformedResponse)}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: op.Fallback(), Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	return nil
}

// statusError builds the error for a non-2xx response, preferring the
// server's own message.
func statusError(op Op, status int, data []byte) *RemoteError {
	re := &RemoteError{
		Op:      op,
		Status:  status,
		Message: op.Fallback(),
		Err:     fmt.Errorf("remote: unexpected status %d", status),
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return re
	}

	if strings.HasPrefix(text, "{") {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err == nil {
			if eb.Error != "" {
				re.Message = eb.Error
			}
			re.Code = eb.Code
			re.Params = eb.Params
		}
		return re
	}

	// A JSON string literal is unquoted; other text is the message as sent.
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			text = s
		}
	}
	if text != "" {
		re.Message = text
	}
	return re
}
