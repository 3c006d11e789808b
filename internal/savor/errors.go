package savor

import "fmt"

// NotFoundError reports a 404 from the server.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// AuthError reports a 401 or 403 from the server.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error (HTTP %d)", e.StatusCode)
}

// RateLimitError reports a 429 that survived the retry budget.
// RetryAfter is the server-provided wait in seconds, or 0 when the
// header was missing or unparseable.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %ds)", e.RetryAfter)
	}
	return "rate limited"
}

// ServerError reports a 5xx from the server.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// ResponseTooLargeError reports a response body that exceeded the
// configured size cap. Size is the observed byte count (capped at one
// byte past the limit), MaxSize the configured maximum.
type ResponseTooLargeError struct {
	Size    int64
	MaxSize int64
}

func (e *ResponseTooLargeError) Error() string {
	// Sub-megabyte limits would round to "0.0MB"; report bytes instead.
	if e.MaxSize < 1<<20 {
		return fmt.Sprintf("response too large: %d bytes exceeds limit of %d bytes", e.Size, e.MaxSize)
	}
	return fmt.Sprintf("response too large: %.1fMB exceeds limit of %.0fMB",
		float64(e.Size)/1024/1024, float64(e.MaxSize)/1024/1024)
}

// ConnectionError reports a network-level failure that exhausted the
// retry budget. Timeout records whether the last failure was a timeout.
type ConnectionError struct {
	Retries int
	Timeout bool
	Err     error
}

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("connection error: request failed after %d retries: %v", e.Retries, e.Err)
	if e.Timeout {
		msg += " (timed out)"
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ClientError is the catch-all for failures that fit no other kind:
// unexpected HTTP statuses, undecodable bodies, and the defensive
// fallthrough at the end of the retry loop. StatusCode is 0 when the
// failure was not tied to an HTTP response.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}
