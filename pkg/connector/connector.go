package connector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

// DefaultTimeout is applied to the default HTTP client
const DefaultTimeout = 60 * time.Second

// RetryPolicy configures retries of transient failures. The zero value
// disables retries.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p RetryPolicy) retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.Reset()

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Connector sends requests over HTTP
type Connector struct {
	httpClient *http.Client
	logger     hclog.Logger
	retry      RetryPolicy
	metrics    *Metrics
}

// Option configures a Connector
type Option func(*Connector)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger hclog.Logger) Option {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryPolicy enables retries of transient failures
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Connector) {
		c.retry = policy
	}
}

// WithMetrics records request counts and latencies
func WithMetrics(m *Metrics) Option {
	return func(c *Connector) {
		c.metrics = m
	}
}

// New creates a connector
func New(opts ...Option) *Connector {
	c := &Connector{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusError marks a response with a retryable status
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.code)
}

// Do sends the request and reads the whole response body
func (c *Connector) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Stream sends the request and returns the open response. The caller must
// close the body.
func (c *Connector) Stream(ctx context.Context, req *Request) (*http.Response, error) {
	return c.execute(ctx, req)
}

func (c *Connector) execute(ctx context.Context, req *Request) (*http.Response, error) {
	body, contentType, err := req.encodeBody()
	if err != nil {
		return nil, err
	}
	fullURL, err := req.FullURL()
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	attempt := 0

	op := func() error {
		attempt++

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}

		c.logger.Debug("sending request", "method", req.Method, "url", req.URL, "attempt", attempt)

		start := time.Now()
		r, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.metrics.observe(req.Method, "error", time.Since(start))
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("request failed: %w", err)
		}
		c.metrics.observe(req.Method, strconv.Itoa(r.StatusCode), time.Since(start))

		c.logger.Debug("received response", "method", req.Method, "url", req.URL, "status", r.StatusCode, "duration", time.Since(start))

		if c.retry.retryableStatus(r.StatusCode) && attempt <= c.retry.MaxRetries {
			_, _ = io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return &statusError{code: r.StatusCode}
		}

		resp = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying request", "method", req.Method, "url", req.URL, "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, c.retry.backOff(ctx), notify); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("request failed after %d attempts: %w", attempt, err)
		}
		return nil, err
	}
	return resp, nil
}
