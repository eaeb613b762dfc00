// Package transport is the single outbound request pipeline for the platform
// API. Every call attaches credentials, unwraps the response envelope, and on
// a 401 drives the single-flight token refresh protocol before retrying.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the fixed client-side timeout applied to every request. A
// timeout is classified as a network error and never retried.
const DefaultTimeout = 30 * time.Second

// Session is the slice of the session store the transport needs: current
// credentials plus the two mutations the refresh protocol performs. Defined
// here so the transport never imports the session package.
type Session interface {
	// AccessToken returns the current bearer token, empty when
	// unauthenticated.
	AccessToken() string
	// TenantID returns the tenant for the X-Tenant-Id header, empty when the
	// profile carries none.
	TenantID() string
	// RefreshAccessToken exchanges the refresh token for a new access token.
	RefreshAccessToken(ctx context.Context) error
	// ForceLogout clears local session state without a remote call.
	ForceLogout(ctx context.Context)
}

// Client is the HTTP gateway. All typed API wrappers go through one Client so
// that credential attachment, envelope handling, and the refresh protocol
// exist in exactly one place.
type Client struct {
	baseURL   string
	http      *http.Client
	session   Session
	userAgent string
	log       zerolog.Logger

	onSessionExpired func()

	refresh refreshGate
}

// NewClient builds a gateway for the given API base URL (e.g.
// "https://console.example.com/api/v1").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "gpucloud-go",
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BindSession attaches the session store. Wiring happens after construction
// because the store's own auth calls go through this client.
func (c *Client) BindSession(s Session) {
	c.session = s
}

// Get issues a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// Do sends one request through the pipeline. body is marshalled as JSON when
// non-nil; out receives the unwrapped envelope data (or the raw body with
// WithRawResponse) and may be nil when the caller only cares about success.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	ro := newRequestOptions(opts)
	return c.do(ctx, method, path, body, out, ro, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, ro *requestOptions, retried bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "transport: marshal request body")
		}
	}

	target := c.baseURL + path
	if len(ro.query) > 0 {
		target += "?" + ro.query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "transport: build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if !ro.noAuth && c.session != nil {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if tenant := c.session.TenantID(); tenant != "" {
			req.Header.Set("X-Tenant-Id", tenant)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		requestsTotal.WithLabelValues(method, "error").Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("request")
	requestsTotal.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(method).Observe(duration.Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.decodeSuccess(raw, out, ro)
	}

	if resp.StatusCode == http.StatusUnauthorized && !ro.noRetry {
		return c.retryWithFreshToken(ctx, method, path, body, out, ro, retried)
	}

	var env Envelope
	fallback := ""
	if json.Unmarshal(raw, &env) == nil && (env.Message != "" || env.Msg != "") {
		fallback = env.text()
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: statusMessage(resp.StatusCode, fallback)}
}

func (c *Client) decodeSuccess(raw []byte, out any, ro *requestOptions) error {
	if ro.raw {
		buf, ok := out.(*[]byte)
		if !ok {
			return errors.New("transport: raw response requires a *[]byte destination")
		}
		*buf = raw
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(err, "transport: decode response envelope")
	}
	if !env.ok() {
		return &BusinessError{Code: env.Code, Message: env.text(), TraceID: env.TraceID}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "transport: decode response data")
	}
	return nil
}

// expireSession is the terminal auth-failure path: local logout, notify the
// application, count it. Remote logout is pointless here, the credentials are
// already dead.
func (c *Client) expireSession(ctx context.Context) {
	c.log.Warn().Msg("session expired, forcing logout")
	sessionExpiries.Inc()
	c.session.ForceLogout(ctx)
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
