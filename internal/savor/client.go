package savor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxRetries      = 3
	defaultRetryDelay      = time.Second
	defaultMaxResponseSize = 10 << 20

	// Delay doubles after every retry; Retry-After overrides the wait
	// for that attempt without resetting the progression.
	retryBackoffFactor = 2.0

	userAgent = "Savor-CLI/1.0"
)

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Config carries the immutable settings for a Client. The zero value of
// Timeout, MaxRetries, RetryDelay, and MaxResponseSize selects the
// default; use DefaultConfig as a starting point and override fields.
type Config struct {
	// BaseURL is the server root; a trailing slash is stripped.
	BaseURL string
	// UserID identifies the acting user in request payloads.
	UserID string
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxRetries is the number of re-attempts after the first try.
	// Negative means the default; 0 disables retries.
	MaxRetries int
	// RetryDelay is the base wait before the first retry.
	RetryDelay time.Duration
	// AuthToken, when set, is sent as a bearer Authorization header.
	AuthToken string
	// MaxResponseSize caps response bodies in bytes. Negative disables
	// the check.
	MaxResponseSize int64
	// AutoClose releases the pooled connection after every call,
	// trading reuse for one-shot lifecycle control.
	AutoClose bool
}

// DefaultConfig returns a Config with the stock limits filled in.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8080",
		UserID:          "demo",
		Timeout:         defaultTimeout,
		MaxRetries:      defaultMaxRetries,
		RetryDelay:      defaultRetryDelay,
		MaxResponseSize: defaultMaxResponseSize,
		AutoClose:       true,
	}
}

// conn pairs a pooled HTTP client with the header set computed when the
// handle was created. Headers never change for the handle's lifetime; a
// new token requires a new Client.
type conn struct {
	httpc   *http.Client
	headers http.Header
}

// Client talks to the Savor server with bounded retries and typed
// failure classification. It lazily opens one pooled connection handle,
// recreated transparently after Close.
type Client struct {
	cfg Config
	log zerolog.Logger

	mu        sync.Mutex
	conn      *conn
	autoClose bool

	// Seams for tests; real runs use sleepCtx and rand.Float64.
	sleep  func(context.Context, time.Duration) error
	jitter func() float64
}

// NewClient validates cfg, normalizes it, and returns a Client. No
// connection is opened until the first request.
func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxResponseSize == 0 {
		cfg.MaxResponseSize = defaultMaxResponseSize
	}
	return &Client{
		cfg:       cfg,
		log:       zerolog.Nop(),
		autoClose: cfg.AutoClose,
		sleep:     sleepCtx,
		jitter:    rand.Float64,
	}, nil
}

// WithLogger attaches a logger for retry diagnostics and returns c.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// IsAuthenticated reports whether requests carry a bearer token.
func (c *Client) IsAuthenticated() bool { return c.cfg.AuthToken != "" }

// UserID returns the configured acting user.
func (c *Client) UserID() string { return c.cfg.UserID }

func (c *Client) connection() *conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		c.conn = newConn(c.cfg)
	}
	return c.conn
}

func newConn(cfg Config) *conn {
	headers := http.Header{}
	headers.Set("User-Agent", userAgent)
	headers.Set("X-Client-Type", "cli")
	headers.Set("Accept", "application/json")
	if cfg.AuthToken != "" {
		headers.Set("Authorization", "Bearer "+cfg.AuthToken)
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &conn{
		httpc:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
		headers: headers,
	}
}

// Close releases the pooled connection if one exists. Safe to call when
// none exists; the next request creates a fresh handle.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.httpc.CloseIdleConnections()
		c.conn = nil
	}
}

// Session runs fn with connection reuse: auto-close is suspended for
// the duration, the connection is released on exit, and the configured
// auto-close setting is restored.
func (c *Client) Session(ctx context.Context, fn func(context.Context) error) error {
	c.mu.Lock()
	prev := c.autoClose
	c.autoClose = false
	c.mu.Unlock()
	defer func() {
		c.Close()
		c.mu.Lock()
		c.autoClose = prev
		c.mu.Unlock()
	}()
	return fn(ctx)
}

func (c *Client) cleanupIfNeeded() {
	c.mu.Lock()
	auto := c.autoClose
	c.mu.Unlock()
	if auto {
		c.Close()
	}
}

// HealthCheck probes the server's liveness endpoint.
func (c *Client) HealthCheck(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/health/", nil, nil)
}

// Do executes one logical request against the configured base URL and
// returns the raw JSON body of a 2xx response. Transient failures
// (429/502/503/504, connect errors, timeouts) are retried up to
// MaxRetries times with doubling delay and up to 10% positive jitter;
// everything else fails fast. Every failure is one of the typed errors
// in this package, never a raw transport error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	conn := c.connection()
	defer c.cleanupIfNeeded()

	var lastErr error
	var lastTimeout bool
	delay := c.cfg.RetryDelay

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.send(ctx, conn, method, path, query, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var cerr *ClientError
			if errors.As(err, &cerr) {
				return nil, cerr
			}
			lastErr = err
			lastTimeout = isTimeout(err)
			if attempt < c.cfg.MaxRetries {
				wait := c.withJitter(delay)
				c.log.Warn().Str("path", path).Err(err).
					Int("attempt", attempt+1).Int("max_retries", c.cfg.MaxRetries).
					Msg("connection error, retrying")
				if serr := c.sleep(ctx, wait); serr != nil {
					return nil, serr
				}
				delay = time.Duration(float64(delay) * retryBackoffFactor)
				continue
			}
			break
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if attempt < c.cfg.MaxRetries && (resp.StatusCode == http.StatusTooManyRequests || retryableStatus(resp.StatusCode)) {
				wait := c.withJitter(delay)
				if resp.StatusCode == http.StatusTooManyRequests {
					if after, ok := parseRetryAfter(resp.Header); ok {
						wait = c.withJitter(after)
					}
					c.log.Warn().Str("path", path).Dur("wait", wait).
						Int("attempt", attempt+1).Int("max_retries", c.cfg.MaxRetries).
						Msg("rate limited, backing off")
				} else {
					c.log.Warn().Str("path", path).Int("status", resp.StatusCode).
						Int("attempt", attempt+1).Int("max_retries", c.cfg.MaxRetries).
						Msg("server error, retrying")
				}
				drain(resp)
				if serr := c.sleep(ctx, wait); serr != nil {
					return nil, serr
				}
				delay = time.Duration(float64(delay) * retryBackoffFactor)
				continue
			}
			defer drain(resp)
			return nil, classifyStatus(resp)
		}

		data, rerr := readCapped(resp.Body, c.cfg.MaxResponseSize)
		resp.Body.Close()
		if rerr != nil {
			// Body cut short mid-read; treat like any other network
			// failure.
			lastErr = rerr
			lastTimeout = isTimeout(rerr)
			if attempt < c.cfg.MaxRetries {
				wait := c.withJitter(delay)
				c.log.Warn().Str("path", path).Err(rerr).
					Int("attempt", attempt+1).Int("max_retries", c.cfg.MaxRetries).
					Msg("read error, retrying")
				if serr := c.sleep(ctx, wait); serr != nil {
					return nil, serr
				}
				delay = time.Duration(float64(delay) * retryBackoffFactor)
				continue
			}
			break
		}
		if c.cfg.MaxResponseSize > 0 && int64(len(data)) > c.cfg.MaxResponseSize {
			// A larger response will not shrink on retry.
			return nil, &ResponseTooLargeError{Size: int64(len(data)), MaxSize: c.cfg.MaxResponseSize}
		}
		if !json.Valid(data) {
			return nil, &ClientError{Message: "invalid JSON in response body"}
		}
		return json.RawMessage(data), nil
	}

	if lastErr != nil {
		return nil, &ConnectionError{Retries: c.cfg.MaxRetries, Timeout: lastTimeout, Err: lastErr}
	}
	// Defensive: the loop above always returns or records an error.
	return nil, &ClientError{Message: "unexpected error in request handling"}
}

func (c *Client) send(ctx context.Context, conn *conn, method, path string, query url.Values, body any) (*http.Response, error) {
	reqURL := c.cfg.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			// Construction failures repeat identically; never retried.
			return nil, &ClientError{Message: fmt.Sprintf("encode request body: %v", err)}
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, &ClientError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header = conn.headers.Clone()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return conn.httpc.Do(req)
}

// classifyStatus maps a terminal non-2xx response to its typed error.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{URL: resp.Request.URL.String()}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		after, _ := parseRetryAfter(resp.Header)
		return &RateLimitError{RetryAfter: int(after / time.Second)}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	default:
		return &ClientError{StatusCode: resp.StatusCode, Message: "unexpected status"}
	}
}

// parseRetryAfter reads a Retry-After header holding non-negative whole
// seconds. Anything else (HTTP dates, fractions, signs) is ignored.
func parseRetryAfter(h http.Header) (time.Duration, bool) {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// withJitter adds up to 10% uniform positive jitter to d.
func (c *Client) withJitter(d time.Duration) time.Duration {
	return d + time.Duration(c.jitter()*0.1*float64(d))
}

// readCapped reads at most one byte past the limit so oversize bodies are
// detected without buffering arbitrarily large payloads.
func readCapped(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	return io.ReadAll(r)
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
