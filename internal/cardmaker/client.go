// Package cardmaker provides a typed client for the CardMaker REST API.
//
// The client resolves resource paths against an explicitly supplied base
// endpoint, attaches a bearer token when a session is active, and
// classifies every non-2xx response as a failure carrying its status.
// Read operations absorb failures into logged messages and safe defaults
// unless the client is configured with propagating reads; write operations
// always surface failures to the caller.
package cardmaker

import (
	"bytes"
	"context"
	"github.com/go-json-experiment/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
	apperrors "github.com/cardmakerapp/cardmaker-go/internal/errors"
	"github.com/cardmakerapp/cardmaker-go/internal/id"
	"github.com/cardmakerapp/cardmaker-go/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client is a typed CardMaker API client.
type Client struct {
	http    *http.Client
	base    *url.URL
	limiter *rate.Limiter
	logger  *slog.Logger
	strict  bool

	// Transient copy of the session token. The session store, when
	// attached, is the source of truth and keeps this in sync.
	mu       sync.RWMutex
	token    string
	loggedIn bool

	sessions    *session.Store
	unsubscribe func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing and absorbed-error
// reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithPropagatingReads makes read operations surface failures to the
// caller instead of logging them and returning safe defaults.
func WithPropagatingReads() Option {
	return func(c *Client) { c.strict = true }
}

// WithSessionStore attaches a session store. The client subscribes to it
// and mirrors the token; LogIn and LogOut write through to it.
func WithSessionStore(store *session.Store) Option {
	return func(c *Client) { c.sessions = store }
}

// New creates a CardMaker client for the given base endpoint. The
// endpoint must be an absolute URL; every resource path is resolved
// against it.
func New(endpoint string, opts ...Option) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
	}

	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		base:   base,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.sessions != nil {
		c.unsubscribe = c.sessions.Subscribe(func(sess domain.Session) {
			c.mu.Lock()
			c.token = sess.Token
			c.loggedIn = sess.Active()
			c.mu.Unlock()
		})
	}
	return c, nil
}

// Close detaches the client from the session store.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// LoggedIn reports whether the client currently holds a session token.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do executes a single HTTP request and returns the raw response body.
// Non-2xx responses become a *StatusError; there are no retries and no
// timeout handling beyond the transport's own.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID, err := id.Generate("req")
	if err == nil {
		req.Header.Set("X-Request-ID", requestID)
	}

	c.logger.Debug("cardmaker request",
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}
	return data, nil
}

// get performs a GET and decodes the JSON body into T.
func get[T any](c *Client, ctx context.Context, path string, query url.Values) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse response: %w", err)
	}
	return out, nil
}

// post performs a POST with a JSON body and decodes the JSON response
// into T.
func post[T any](c *Client, ctx context.Context, path string, body any) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse response: %w", err)
	}
	return out, nil
}

// put performs a PUT with a JSON body. Success is the absence of failure.
func (c *Client) put(ctx context.Context, path string, body any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body)
	return err
}

// del performs a DELETE. Success is the absence of failure.
func (c *Client) del(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// absorb reports whether err was swallowed under the absorbing read
// policy. The normalized message is logged so the failure stays visible.
func (c *Client) absorb(op string, err error) bool {
	if c.strict {
		return false
	}
	c.logger.Error("cardmaker "+op+" failed",
		"error", apperrors.MessageOf(err),
	)
	return true
}
