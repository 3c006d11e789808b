package savor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient builds a client against baseURL with fast retries and
// a recorded, non-blocking sleep.
func newTestClient(t *testing.T, baseURL string, mutate func(*Config)) (*Client, *[]time.Duration) {
	t.Helper()
	cfg := Config{
		BaseURL:    baseURL,
		UserID:     "tester",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	var sleeps []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	c.jitter = func() float64 { return 0.5 }
	return c, &sleeps
}

func TestNewClient_NormalizesBaseURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://example.com/"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.cfg.BaseURL != "http://example.com" {
		t.Fatalf("BaseURL = %q, want trailing slash stripped", c.cfg.BaseURL)
	}
	if c.cfg.MaxRetries != defaultMaxRetries || c.cfg.Timeout != defaultTimeout {
		t.Fatalf("defaults not applied: %+v", c.cfg)
	}

	if _, err := NewClient(Config{BaseURL: "   "}); err == nil {
		t.Fatal("NewClient accepted empty base URL")
	}
}

func TestDo_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sends.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	raw, err := c.Do(context.Background(), http.MethodGet, "/thing", nil, nil)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	var payload struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || !payload.OK {
		t.Fatalf("payload = %s, want {\"ok\": true}", raw)
	}
	if got := sends.Load(); got != 3 {
		t.Fatalf("sends = %d, want 3", got)
	}
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps = %d, want 2", len(*sleeps))
	}
}

func TestDo_BackoffDoublesBetweenRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	c.jitter = func() float64 { return 0 }
	_, err := c.Do(context.Background(), http.MethodGet, "/thing", nil, nil)
	if err == nil {
		t.Fatal("Do succeeded, want error")
	}
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps = %v, want 2 entries", *sleeps)
	}
	if (*sleeps)[0] != 10*time.Millisecond || (*sleeps)[1] != 20*time.Millisecond {
		t.Fatalf("sleeps = %v, want 10ms then 20ms", *sleeps)
	}
}

func TestDo_RetriesExhaustedReturnsServerError(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sends.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), http.MethodGet, "/thing", nil, nil)
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error = %v, want *ServerError", err)
	}
	if serverErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d, want 503", serverErr.StatusCode)
	}
	// maxRetries sleeps, never a final one after the last attempt.
	if got := sends.Load(); got != 3 {
		t.Fatalf("sends = %d, want 3", got)
	}
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps = %d, want 2", len(*sleeps))
	}
}

func TestDo_NotFoundFailsFirstAttempt(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sends.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), http.MethodGet, "/missing", nil, nil)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if sends.Load() != 1 || len(*sleeps) != 0 {
		t.Fatalf("sends = %d sleeps = %d, want 1 and 0", sends.Load(), len(*sleeps))
	}
}

func TestDo_AuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c, sleeps := newTestClient(t, server.URL, nil)
		_, err := c.Do(context.Background(), http.MethodGet, "/secure", nil, nil)
		server.Close()

		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("status %d: error = %v, want *AuthError", status, err)
		}
		if authErr.StatusCode != status {
			t.Fatalf("StatusCode = %d, want %d", authErr.StatusCode, status)
		}
		if len(*sleeps) != 0 {
			t.Fatalf("status %d triggered %d sleeps, want 0", status, len(*sleeps))
		}
	}
}

func TestDo_RetryAfterHeaderOverridesDelay(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sends.Add(1) == 1 {
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	if _, err := c.Do(context.Background(), http.MethodGet, "/limited", nil, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if len(*sleeps) != 1 {
		t.Fatalf("sleeps = %d, want 1", len(*sleeps))
	}
	// Header value plus up to 10% positive jitter.
	if wait := (*sleeps)[0]; wait < 5*time.Second || wait > 5500*time.Millisecond {
		t.Fatalf("wait = %v, want within [5s, 5.5s]", wait)
	}
}

func TestDo_InvalidRetryAfterFallsBackToBaseDelay(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sends.Add(1) == 1 {
			w.Header().Set("Retry-After", "soon")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	if _, err := c.Do(context.Background(), http.MethodGet, "/limited", nil, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if len(*sleeps) != 1 {
		t.Fatalf("sleeps = %d, want 1", len(*sleeps))
	}
	if wait := (*sleeps)[0]; wait < 10*time.Millisecond || wait > 11*time.Millisecond {
		t.Fatalf("wait = %v, want within [10ms, 11ms]", wait)
	}
}

func TestDo_RateLimitExhaustedCarriesRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxRetries = 0 })
	_, err := c.Do(context.Background(), http.MethodGet, "/limited", nil, nil)
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("error = %v, want *RateLimitError", err)
	}
	if rateErr.RetryAfter != 7 {
		t.Fatalf("RetryAfter = %d, want 7", rateErr.RetryAfter)
	}
}

func TestDo_OversizedResponseNeverRetried(t *testing.T) {
	var sends atomic.Int32
	body := []byte(`{"data":"` + strings.Repeat("x", 48) + `"}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sends.Add(1)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	limit := int64(len(body) - 1)
	c, sleeps := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxResponseSize = limit })
	_, err := c.Do(context.Background(), http.MethodGet, "/big", nil, nil)
	var tooLarge *ResponseTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("error = %v, want *ResponseTooLargeError", err)
	}
	if tooLarge.Size != limit+1 || tooLarge.MaxSize != limit {
		t.Fatalf("Size = %d MaxSize = %d, want %d and %d", tooLarge.Size, tooLarge.MaxSize, limit+1, limit)
	}
	if sends.Load() != 1 || len(*sleeps) != 0 {
		t.Fatalf("sends = %d sleeps = %d, want 1 and 0", sends.Load(), len(*sleeps))
	}
}

func TestDo_ResponseAtLimitSucceeds(t *testing.T) {
	body := []byte(`{"ok":true}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxResponseSize = int64(len(body)) })
	if _, err := c.Do(context.Background(), http.MethodGet, "/fits", nil, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
}

func TestDo_TimeoutExhaustsRetries(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sends.Add(1)
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.MaxRetries = 1
		cfg.Timeout = 50 * time.Millisecond
	})
	_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want *ConnectionError", err)
	}
	if !connErr.Timeout {
		t.Fatalf("Timeout = false, want true: %v", connErr)
	}
	if got := connErr.Error(); !strings.Contains(got, "timed out") {
		t.Fatalf("message = %q, want timeout notation", got)
	}
	if sends.Load() != 2 || len(*sleeps) != 1 {
		t.Fatalf("sends = %d sleeps = %d, want 2 and 1", sends.Load(), len(*sleeps))
	}
}

func TestDo_ConnectRefusedExhaustsRetries(t *testing.T) {
	// A closed server yields connection refused on every attempt.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, sleeps := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxRetries = 1 })
	_, err := c.Do(context.Background(), http.MethodGet, "/gone", nil, nil)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want *ConnectionError", err)
	}
	if connErr.Retries != 1 {
		t.Fatalf("Retries = %d, want 1", connErr.Retries)
	}
	if len(*sleeps) != 1 {
		t.Fatalf("sleeps = %d, want 1", len(*sleeps))
	}
}

func TestDo_UnencodableBodyFailsFastWithoutRetry(t *testing.T) {
	var sends atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sends.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, sleeps := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), http.MethodPost, "/x", nil, map[string]any{"ch": make(chan int)})
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error = %v, want *ClientError", err)
	}
	if !strings.Contains(clientErr.Message, "encode request body") {
		t.Fatalf("message = %q, want encode failure", clientErr.Message)
	}
	// The marshal fails identically on every attempt; no sends, no sleeps.
	if sends.Load() != 0 || len(*sleeps) != 0 {
		t.Fatalf("sends = %d sleeps = %d, want 0 and 0", sends.Load(), len(*sleeps))
	}
}

func TestDo_InvalidMethodFailsFastWithoutRetry(t *testing.T) {
	c, sleeps := newTestClient(t, "http://127.0.0.1:0", nil)
	_, err := c.Do(context.Background(), "BAD METHOD", "/x", nil, nil)
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error = %v, want *ClientError", err)
	}
	if len(*sleeps) != 0 {
		t.Fatalf("sleeps = %d, want 0", len(*sleeps))
	}
}

func TestDo_InvalidJSONIsClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, nil)
	_, err := c.Do(context.Background(), http.MethodGet, "/weird", nil, nil)
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error = %v, want *ClientError", err)
	}
}

func TestDo_SendsIdentityAndAuthHeaders(t *testing.T) {
	var gotUA, gotType, gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotType = r.Header.Get("X-Client-Type")
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, func(cfg *Config) { cfg.AuthToken = "secret" })
	if _, err := c.Do(context.Background(), http.MethodPost, "/meals", nil, map[string]any{"a": 1}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if gotUA != userAgent || gotType != "cli" {
		t.Fatalf("identity headers = %q %q, want %q and cli", gotUA, gotType, userAgent)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestClose_WithoutConnectionIsNoop(t *testing.T) {
	c, _ := newTestClient(t, "http://127.0.0.1:0", nil)
	c.Close()
	c.Close()
}

func TestClose_NextUseCreatesFreshHandle(t *testing.T) {
	c, _ := newTestClient(t, "http://127.0.0.1:0", func(cfg *Config) { cfg.AutoClose = false })
	first := c.connection()
	if first == nil {
		t.Fatal("connection() returned nil")
	}
	c.Close()
	second := c.connection()
	if second == nil || second == first {
		t.Fatalf("connection after Close = %p, want a fresh handle (old %p)", second, first)
	}
}

func TestAutoClose_ReleasesAfterEachCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, func(cfg *Config) { cfg.AutoClose = true })
	if _, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		t.Fatal("connection still open after auto-close call")
	}
}

func TestSession_ReusesConnectionAndRestoresAutoClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, func(cfg *Config) { cfg.AutoClose = true })
	var inside *conn
	err := c.Session(context.Background(), func(ctx context.Context) error {
		if _, err := c.Do(ctx, http.MethodGet, "/a", nil, nil); err != nil {
			return err
		}
		c.mu.Lock()
		inside = c.conn
		c.mu.Unlock()
		_, err := c.Do(ctx, http.MethodGet, "/b", nil, nil)
		return err
	})
	if err != nil {
		t.Fatalf("Session returned error: %v", err)
	}
	if inside == nil {
		t.Fatal("connection was auto-closed inside session")
	}
	c.mu.Lock()
	after, auto := c.conn, c.autoClose
	c.mu.Unlock()
	if after != nil {
		t.Fatal("connection not released on session exit")
	}
	if !auto {
		t.Fatal("auto-close not restored after session")
	}
}

func TestDo_CancelledContextStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	c, _ := newTestClient(t, server.URL, nil)
	c.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	_, err := c.Do(ctx, http.MethodGet, "/x", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"5", 5 * time.Second, true},
		{"0", 0, true},
		{" 12 ", 12 * time.Second, true},
		{"-3", 0, false},
		{"2.5", 0, false},
		{"soon", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		h := http.Header{}
		if tc.value != "" {
			h.Set("Retry-After", tc.value)
		}
		got, ok := parseRetryAfter(h)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseRetryAfter(%q) = %v %v, want %v %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResponseTooLargeError_MessageUnits(t *testing.T) {
	small := &ResponseTooLargeError{Size: 51, MaxSize: 50}
	if got := small.Error(); !strings.Contains(got, "51 bytes exceeds limit of 50 bytes") {
		t.Fatalf("small-limit message = %q, want byte counts", got)
	}
	large := &ResponseTooLargeError{Size: 11 << 20, MaxSize: 10 << 20}
	if got := large.Error(); !strings.Contains(got, "11.0MB exceeds limit of 10MB") {
		t.Fatalf("large-limit message = %q, want MB rendering", got)
	}
}

func TestWithJitter_BoundedAbove(t *testing.T) {
	c, _ := newTestClient(t, "http://127.0.0.1:0", nil)
	c.jitter = func() float64 { return 0.999 }
	base := time.Second
	got := c.withJitter(base)
	if got < base || got > base+base/10 {
		t.Fatalf("withJitter(%v) = %v, want within [1s, 1.1s]", base, got)
	}
}

