package transport

import (
	"context"
	"sync"
)

// refreshGate serializes token refreshes. Requests that 401 while a refresh is
// already in flight park on a FIFO queue instead of starting their own
// refresh; refresh tokens are single-use on the backend, so N racing refreshes
// would leave N-1 requests holding a dead session.
type refreshGate struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan error
}

// retryWithFreshToken handles a transport-level 401 on an authenticated
// request.
//
// The first 401 to arrive claims the gate, refreshes, then releases the
// waiters in the order they queued before retrying its own request. Later
// 401s enqueue and block until the refresh resolves. A request that already
// retried once and got 401 again is terminal: the refreshed token itself was
// rejected, so retrying again would loop forever.
func (c *Client) retryWithFreshToken(ctx context.Context, method, path string, body, out any, ro *requestOptions, retried bool) error {
	if c.session == nil {
		return &HTTPError{StatusCode: 401, Message: statusMessage(401, "unauthorized")}
	}
	if retried {
		c.expireSession(ctx)
		return ErrSessionExpired
	}

	c.refresh.mu.Lock()
	if c.refresh.inFlight {
		ch := make(chan error, 1)
		c.refresh.waiters = append(c.refresh.waiters, ch)
		c.refresh.mu.Unlock()

		select {
		case err := <-ch:
			if err != nil {
				return err
			}
			return c.do(ctx, method, path, body, out, ro, true)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refresh.inFlight = true
	c.refresh.mu.Unlock()

	refreshErr := c.session.RefreshAccessToken(ctx)

	c.refresh.mu.Lock()
	waiters := c.refresh.waiters
	c.refresh.waiters = nil
	c.refresh.inFlight = false
	c.refresh.mu.Unlock()

	if refreshErr != nil {
		c.log.Warn().Err(refreshErr).Msg("token refresh failed")
		tokenRefreshes.WithLabelValues("failure").Inc()
		// Queued requests are not retried; they fail with the same terminal
		// error as the request that drove the refresh.
		for _, ch := range waiters {
			ch <- ErrSessionExpired
		}
		c.expireSession(ctx)
		return ErrSessionExpired
	}

	tokenRefreshes.WithLabelValues("success").Inc()
	c.log.Debug().Int("queued", len(waiters)).Msg("token refreshed, releasing queued requests")
	// FIFO release: every queued request re-reads the published token when it
	// re-issues, so all of them observe the same refreshed credential.
	for _, ch := range waiters {
		ch <- nil
	}
	return c.do(ctx, method, path, body, out, ro, true)
}
