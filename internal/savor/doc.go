// Package savor provides the HTTP client for the Savor server API.
//
// # Overview
//
// This package owns all communication with the Savor server: connection
// pooling, request construction, JSON serialization, bounded retries
// with backoff, and classification of every failure into a typed error.
// The rest of the CLI never touches net/http directly.
//
// # Architecture
//
// The package is split by concern:
//
//   - client.go: transport core — pooled connection lifecycle, the
//     retry/backoff loop, and error classification
//   - errors.go: the typed error taxonomy returned to callers
//   - types.go: data structures mirroring the server API schema
//   - meals.go, recipes.go, pantry.go: typed wrappers for the
//     individual endpoints
//
// # Client Usage
//
// Create a client from a Config (usually built by the config package):
//
//	cfg := savor.DefaultConfig()
//	cfg.BaseURL = "https://savor.example.com"
//	client, err := savor.NewClient(cfg)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	logs, err := client.MealLogs(ctx, 10)
//
// For a burst of related calls, Session keeps the pooled connection
// open across them and releases it on exit:
//
//	err := client.Session(ctx, func(ctx context.Context) error {
//		if _, err := client.Profile(ctx); err != nil {
//			return err
//		}
//		_, err := client.MealLogs(ctx, 10)
//		return err
//	})
//
// # Connection Lifecycle
//
// The pooled connection handle is created lazily on first use and
// carries its header set (User-Agent, X-Client-Type, optional bearer
// Authorization) for its entire lifetime. Close releases it; the next
// request transparently creates a fresh handle. With AutoClose set the
// connection is released after every call, which suits one-shot CLI
// invocations; Session suspends AutoClose for its scope.
//
// A changed auth token requires a new Client — headers are fixed at
// handle creation.
//
// # Retry Behavior
//
// Do attempts a request up to MaxRetries+1 times. Retryable outcomes
// are HTTP 429/502/503/504 and network-level connect or timeout
// failures. The wait starts at RetryDelay, doubles after each retry,
// and gains up to 10% uniform positive jitter; a parseable Retry-After
// header on a 429 overrides the wait for that attempt. Everything else
// fails immediately with a typed error. Sleeps and sends honor context
// cancellation.
//
// # Error Handling
//
// Do never leaks a raw transport error. Every failure is one of:
//
//   - *NotFoundError: HTTP 404
//   - *AuthError: HTTP 401 or 403
//   - *RateLimitError: HTTP 429 after retries, with the server's
//     Retry-After value when present
//   - *ServerError: terminal 5xx
//   - *ResponseTooLargeError: body over MaxResponseSize, detected
//     before JSON decoding and never retried
//   - *ConnectionError: network failure after retries, flagged when
//     the last failure was a timeout
//   - *ClientError: unexpected statuses, undecodable bodies, and the
//     defensive fallthrough at the end of the retry loop
//
// Callers use errors.As to branch on the kind and render a precise
// user-facing message.
//
// # Response Size Cap
//
// Bodies are read through a limit reader sized one byte past
// MaxResponseSize, so oversize responses are detected on raw byte
// length without unbounded buffering. The check runs after a 2xx
// status and before JSON decoding; a negative MaxResponseSize disables
// it.
//
// # Thread Safety
//
// A Client is safe for concurrent use; the handle swap in Close and
// the AutoClose bookkeeping are mutex-guarded, and the underlying
// http.Transport pools connections for concurrent requests.
package savor
