// Package guard is the navigation interceptor: every route change is
// evaluated against the session before it is allowed. The checks run in a
// fixed priority order so that, for example, a forced password change
// overrides role-based routing.
package guard

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/gridvolt/gpucloud-go/session"
)

// SessionState is what the guard reads (and, on an unresolvable profile,
// clears). Satisfied by *session.Store.
type SessionState interface {
	IsAuthenticated() bool
	User() *session.UserProfile
	FetchProfile(ctx context.Context) (*session.UserProfile, error)
	ForceLogout(ctx context.Context)
}

// Decision is the outcome of evaluating a navigation intent: either allow it,
// or redirect somewhere else (optionally with query parameters such as the
// preserved destination).
type Decision struct {
	Allow  bool
	Target string
	Query  url.Values
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// Guard evaluates navigation intents against the session and route table.
type Guard struct {
	sess   SessionState
	routes *Registry
	log    zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger attaches a zerolog logger; redirects are logged at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// New builds a Guard over the session and route registry.
func New(sess SessionState, routes *Registry, opts ...Option) *Guard {
	g := &Guard{
		sess:   sess,
		routes: routes,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs the guard chain for a navigation to path. The predicates are
// ordered; the first one that fires decides.
func (g *Guard) Evaluate(ctx context.Context, path string) Decision {
	route := g.routes.Resolve(path)
	d := g.evaluate(ctx, route)
	if !d.Allow {
		g.log.Debug().Str("from", path).Str("to", d.Target).Msg("navigation redirected")
	}
	return d
}

func (g *Guard) evaluate(ctx context.Context, route Route) Decision {
	authed := g.sess.IsAuthenticated()

	// 1. Protected route, no session: go sign in, remember where we were
	// headed.
	if route.RequiresAuth && !authed {
		d := redirect(PathLogin)
		d.Query = url.Values{RedirectQueryParam: {route.Path}}
		return d
	}

	// 2. Authenticated but no profile yet: resolve it now. A profile that
	// cannot be fetched means the session is not usable.
	user := g.sess.User()
	if route.RequiresAuth && authed && user == nil {
		fetched, err := g.sess.FetchProfile(ctx)
		if err != nil {
			g.sess.ForceLogout(ctx)
			return redirect(PathLogin)
		}
		user = fetched
	}

	forced := authed && user != nil && user.MustChangePassword

	// 3. Forced password change locks navigation to the change-password
	// page, role routing included.
	if forced && route.Path != PathChangePassword {
		return redirect(PathChangePassword)
	}

	// 4. Login page while already signed in: go home for the role.
	if route.Path == PathLogin && authed {
		if forced {
			return redirect(PathChangePassword)
		}
		return redirect(roleHome(user))
	}

	// 5. Change-password page without the flag set: nothing to do there.
	if route.Path == PathChangePassword && authed && !forced {
		return redirect(PathRoot)
	}

	// 6. Role check.
	if len(route.Roles) > 0 {
		if user == nil || !route.allows(user.Role) {
			return redirect(PathForbidden)
		}
	}

	return allow()
}

// Home returns the landing path for the current session: login when signed
// out, change-password when forced, otherwise the role dashboard.
func (g *Guard) Home() string {
	if !g.sess.IsAuthenticated() {
		return PathLogin
	}
	user := g.sess.User()
	if user != nil && user.MustChangePassword {
		return PathChangePassword
	}
	return roleHome(user)
}

func roleHome(u *session.UserProfile) string {
	if u != nil && u.Role.IsAdmin() {
		return PathAdminHome
	}
	return PathCustomerHome
}
