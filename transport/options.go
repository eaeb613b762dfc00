package transport

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The caller owns the
// timeout in that case.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger attaches a zerolog logger; request/response lines are written at
// debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSessionExpiredHandler registers a callback invoked once per terminal
// auth failure, after the forced logout. The application typically navigates
// to the login route and shows a notice.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query   url.Values
	raw     bool
	noAuth  bool
	noRetry bool
}

// WithQuery appends URL query parameters to the request.
func WithQuery(v url.Values) RequestOption {
	return func(ro *requestOptions) {
		if ro.query == nil {
			ro.query = url.Values{}
		}
		for k, vals := range v {
			for _, val := range vals {
				ro.query.Add(k, val)
			}
		}
	}
}

// WithRawResponse skips envelope unwrapping and writes the response body into
// out, which must be a *[]byte. Used for file downloads.
func WithRawResponse() RequestOption {
	return func(ro *requestOptions) {
		ro.raw = true
	}
}

// WithoutAuth sends the request with no Authorization header and keeps it out
// of the refresh protocol. Login and refresh calls use this: a 401 on those
// endpoints means bad credentials, not a stale access token.
func WithoutAuth() RequestOption {
	return func(ro *requestOptions) {
		ro.noAuth = true
		ro.noRetry = true
	}
}

// WithoutRetry attaches credentials but surfaces a 401 directly instead of
// entering the refresh protocol. Used by logout, where the token being dead is
// an acceptable outcome.
func WithoutRetry() RequestOption {
	return func(ro *requestOptions) {
		ro.noRetry = true
	}
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	ro := &requestOptions{}
	for _, opt := range opts {
		opt(ro)
	}
	return ro
}
