// Package gpucloud is the Go client for the GridVolt GPU cloud platform: a
// session-aware HTTP gateway, typed wrappers for the console REST API, and
// the navigation guard the dashboards run on.
package gpucloud

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridvolt/gpucloud-go/api/allocations"
	"github.com/gridvolt/gpucloud-go/api/billing"
	"github.com/gridvolt/gpucloud-go/api/datasets"
	"github.com/gridvolt/gpucloud-go/api/machines"
	"github.com/gridvolt/gpucloud-go/api/monitoring"
	"github.com/gridvolt/gpucloud-go/api/tasks"
	"github.com/gridvolt/gpucloud-go/api/workspaces"
	"github.com/gridvolt/gpucloud-go/authapi"
	"github.com/gridvolt/gpucloud-go/guard"
	"github.com/gridvolt/gpucloud-go/session"
	"github.com/gridvolt/gpucloud-go/transport"
)

// Console is the fully wired client: gateway, session store, guard, and the
// typed endpoint wrappers, all sharing one request pipeline.
type Console struct {
	Transport *transport.Client
	Session   *session.Store
	Auth      *authapi.Client
	Guard     *guard.Guard

	Machines    *machines.Client
	Allocations *allocations.Client
	Tasks       *tasks.Client
	Datasets    *datasets.Client
	Workspaces  *workspaces.Client
	Billing     *billing.Client
	Monitoring  *monitoring.Client
}

type consoleOptions struct {
	log              zerolog.Logger
	timeout          time.Duration
	httpClient       *http.Client
	onSessionExpired func()
	routes           []guard.Route
}

// Option configures a Console.
type Option func(*consoleOptions)

// WithLogger attaches a zerolog logger to all components.
func WithLogger(log zerolog.Logger) Option {
	return func(o *consoleOptions) {
		o.log = log
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *consoleOptions) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *consoleOptions) {
		o.httpClient = hc
	}
}

// WithSessionExpiredHandler registers the callback invoked after a terminal
// auth failure forces a logout.
func WithSessionExpiredHandler(fn func()) Option {
	return func(o *consoleOptions) {
		o.onSessionExpired = fn
	}
}

// WithRoutes replaces the default route table used by the guard.
func WithRoutes(routes []guard.Route) Option {
	return func(o *consoleOptions) {
		o.routes = routes
	}
}

// New wires a Console against the given API base URL, hydrating any persisted
// session from storage.
func New(ctx context.Context, baseURL string, storage session.Storage, opts ...Option) (*Console, error) {
	o := &consoleOptions{
		log:     zerolog.Nop(),
		timeout: transport.DefaultTimeout,
		routes:  guard.DefaultRoutes(),
	}
	for _, opt := range opts {
		opt(o)
	}

	topts := []transport.Option{
		transport.WithLogger(o.log),
		transport.WithTimeout(o.timeout),
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.onSessionExpired != nil {
		topts = append(topts, transport.WithSessionExpiredHandler(o.onSessionExpired))
	}

	t := transport.NewClient(baseURL, topts...)
	auth := authapi.New(t)
	store, err := session.NewStore(ctx, auth, storage, session.WithLogger(o.log))
	if err != nil {
		return nil, err
	}
	t.BindSession(store)

	return &Console{
		Transport:   t,
		Session:     store,
		Auth:        auth,
		Guard:       guard.New(store, guard.NewRegistry(o.routes...), guard.WithLogger(o.log)),
		Machines:    machines.New(t),
		Allocations: allocations.New(t),
		Tasks:       tasks.New(t),
		Datasets:    datasets.New(t),
		Workspaces:  workspaces.New(t),
		Billing:     billing.New(t),
		Monitoring:  monitoring.New(t),
	}, nil
}
