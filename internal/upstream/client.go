// Package upstream is the HTTP client for the headless CMS/commerce API.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 10 << 20
)

// ErrNoBaseURL - a relative target was requested but no base URL is configured.
var ErrNoBaseURL = errors.New("upstream base URL is not configured")

//go:generate mockgen -destination=../mocks/mock_upstream.go -package=mocks storefront/internal/upstream API

// API is the part of the client the proxy layer depends on.
type API interface {
	// Get performs a GET request and returns the response whatever its status.
	Get(ctx context.Context, target string) (*Response, error)
	// Do performs a request with the given method, headers, and body.
	Do(ctx context.Context, method, target string, header http.Header, body io.Reader) (*Response, error)
}

// Observer receives the outcome of each upstream call.
type Observer interface {
	ObserveUpstream(method string, code int, d time.Duration)
}

// Response - upstream response with the body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// StatusError - upstream answered with a non-2xx status.
type StatusError struct {
	Status int
	Body   []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.Status)
}

// Client calls the upstream API. Relative targets are resolved against BaseURL.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	observer Observer
	logger   *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithObserver reports call outcomes to o.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport.(*http.Transport).Clone()),
			Timeout:   c.timeout,
		}
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves target against the base URL. Absolute targets are returned unchanged.
func (c *Client) URL(target string) (string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target, nil
	}
	if c.baseURL == "" {
		return "", ErrNoBaseURL
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return c.baseURL + target, nil
}

// Get implements API.
func (c *Client) Get(ctx context.Context, target string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, target, nil, nil)
}

// Do implements API.
func (c *Client) Do(ctx context.Context, method, target string, header http.Header, body io.Reader) (*Response, error) {
	u, err := c.URL(target)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return nil, fmt.Errorf("upstream %s %s: %w", method, u, err)
	}
	defer func() {
		if e := res.Body.Close(); e != nil {
			c.logger.Debugw("close upstream body", "error", e)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	c.observe(method, res.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	c.logger.Debugw("upstream call", "method", method, "url", u, "status", res.StatusCode, "duration", time.Since(start))

	return &Response{Status: res.StatusCode, Header: res.Header, Body: data}, nil
}

// FetchFunc adapts api into a body fetcher for the response cache. Non-2xx
// statuses are returned as *StatusError so they are never stored.
func FetchFunc(api API) func(ctx context.Context, target string) ([]byte, error) {
	return func(ctx context.Context, target string) ([]byte, error) {
		res, err := api.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			return nil, &StatusError{Status: res.Status, Body: res.Body}
		}
		return res.Body, nil
	}
}

func (c *Client) observe(method string, code int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, code, time.Since(start))
	}
}
