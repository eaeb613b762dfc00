package transport

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when a request hits a terminal 401: either the
// token refresh failed, or a request that was already retried with a fresh
// token was rejected again. The client forces a logout before returning it.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// BusinessError is a non-success code inside an otherwise successful HTTP
// response envelope. The HTTP layer accepted the request; the backend rejected
// it at the application level.
type BusinessError struct {
	Code    int
	Message string
	TraceID string
}

func (e *BusinessError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("api error %d: %s (trace %s)", e.Code, e.Message, e.TraceID)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// HTTPError is a non-2xx HTTP status with a response body. 401 never surfaces
// as an HTTPError on authenticated requests; it is routed into the refresh
// protocol instead.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// NetworkError means no response was received at all: timeout, DNS failure,
// connection refused. Network errors never trigger auth handling.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// statusMessage maps an HTTP status code to the fixed user-facing message for
// that class of failure. The fallback is the backend's own envelope message
// when one was present; 500 and unmapped statuses prefer it over the fixed
// text, the other mapped statuses never do.
func statusMessage(status int, fallback string) string {
	switch status {
	case 403:
		return "no permission to access this resource"
	case 404:
		return "requested resource does not exist"
	case 429:
		return "too many requests, try again later"
	case 500:
		if fallback != "" {
			return fallback
		}
		return "internal server error"
	case 502:
		return "bad gateway"
	case 503:
		return "service temporarily unavailable"
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("request failed (%d)", status)
}
