// Package session is the single source of truth for the client's
// authentication state: the token pair, the cached user profile, and the
// predicates the rest of the client derives from them.
package session

// Role is the platform-side user role.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleCustomer       Role = "customer"
	RoleCustomerOwner  Role = "customer_owner"
	RoleCustomerMember Role = "customer_member"
)

// IsAdmin reports whether the role is the platform admin role.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// IsCustomer reports whether the role is any of the customer-side roles.
func (r Role) IsCustomer() bool {
	switch r {
	case RoleCustomer, RoleCustomerOwner, RoleCustomerMember:
		return true
	}
	return false
}

// ParseRole normalizes a backend role string. Anything that is not a known
// role maps to the plain customer role, matching how the console treats
// unknown roles.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleCustomer, RoleCustomerOwner, RoleCustomerMember:
		return Role(s)
	}
	return RoleCustomer
}

// UserProfile is the client-side shape of the authenticated user.
type UserProfile struct {
	ID                 int64
	Username           string
	Email              string
	Role               Role
	TenantID           int64
	TenantName         string
	Avatar             string
	MustChangePassword bool
}

// Credentials are the login request parameters.
type Credentials struct {
	Username string
	Password string
}

// TokenGrant is what the login and refresh endpoints return, already
// normalized from the backend's snake_case payload.
type TokenGrant struct {
	AccessToken        string
	RefreshToken       string
	ExpiresIn          int64
	MustChangePassword bool
}
