package guard

import "github.com/gridvolt/gpucloud-go/session"

// Well-known console paths.
const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathChangePassword = "/change-password"
	PathForgotPassword = "/forgot-password"
	PathForbidden      = "/403"
	PathAdminHome      = "/admin/dashboard"
	PathCustomerHome   = "/customer/dashboard"
)

// RedirectQueryParam carries the intended destination through the login
// redirect, so a successful login can resume the original navigation.
const RedirectQueryParam = "redirect"

// Route is a navigable console destination plus its access metadata.
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
	Roles        []session.Role
}

// allows reports whether the role satisfies the route's role requirement. A
// route with no roles is open to any authenticated user.
func (r Route) allows(role session.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if role == allowed {
			return true
		}
	}
	return false
}

var adminRoles = []session.Role{session.RoleAdmin}

var customerRoles = []session.Role{
	session.RoleCustomer,
	session.RoleCustomerOwner,
	session.RoleCustomerMember,
}

// DefaultRoutes is the console's route table: public auth pages, the admin
// area, and the customer area.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathLogin, Name: "login", Title: "Sign in"},
		{Path: PathForgotPassword, Name: "forgot-password", Title: "Reset password"},
		{Path: PathChangePassword, Name: "change-password", Title: "Change password", RequiresAuth: true},
		{Path: PathForbidden, Name: "forbidden", Title: "Forbidden", RequiresAuth: true},
		{Path: PathRoot, Name: "root", RequiresAuth: true},

		{Path: PathAdminHome, Name: "admin-dashboard", Title: "Admin dashboard", RequiresAuth: true, Roles: adminRoles},
		{Path: "/admin/machines", Name: "admin-machines", Title: "Machines", RequiresAuth: true, Roles: adminRoles},
		{Path: "/admin/allocations", Name: "admin-allocations", Title: "Allocations", RequiresAuth: true, Roles: adminRoles},
		{Path: "/admin/customers", Name: "admin-customers", Title: "Customers", RequiresAuth: true, Roles: adminRoles},
		{Path: "/admin/monitoring", Name: "admin-monitoring", Title: "Monitoring", RequiresAuth: true, Roles: adminRoles},
		{Path: "/admin/billing", Name: "admin-billing", Title: "Billing", RequiresAuth: true, Roles: adminRoles},

		{Path: PathCustomerHome, Name: "customer-dashboard", Title: "Dashboard", RequiresAuth: true, Roles: customerRoles},
		{Path: "/customer/machines", Name: "customer-machines", Title: "My machines", RequiresAuth: true, Roles: customerRoles},
		{Path: "/customer/workspaces", Name: "customer-workspaces", Title: "Workspaces", RequiresAuth: true, Roles: customerRoles},
		{Path: "/customer/billing", Name: "customer-billing", Title: "Billing", RequiresAuth: true, Roles: customerRoles},
	}
}

// Registry resolves paths to routes.
type Registry struct {
	routes map[string]Route
}

// NewRegistry indexes the given routes by path.
func NewRegistry(routes ...Route) *Registry {
	idx := make(map[string]Route, len(routes))
	for _, r := range routes {
		idx[r.Path] = r
	}
	return &Registry{routes: idx}
}

// Resolve returns the route for a path. Unknown paths require authentication,
// matching the router's default of treating unannotated routes as protected.
func (reg *Registry) Resolve(path string) Route {
	if r, ok := reg.routes[path]; ok {
		return r
	}
	return Route{Path: path, RequiresAuth: true}
}
