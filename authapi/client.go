// Package authapi holds the typed wrappers for the auth endpoints. It is
// stateless: pure request/response mapping from the backend's snake_case
// payloads into the client-side session shapes.
package authapi

import (
	"context"

	"github.com/gridvolt/gpucloud-go/session"
	"github.com/gridvolt/gpucloud-go/transport"
)

// Client wraps the /auth endpoints.
type Client struct {
	t *transport.Client
}

// New builds an auth client on top of the gateway.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token"`
	ExpiresIn          int64  `json:"expires_in"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (r tokenResponse) grant() *session.TokenGrant {
	return &session.TokenGrant{
		AccessToken:        r.AccessToken,
		RefreshToken:       r.RefreshToken,
		ExpiresIn:          r.ExpiresIn,
		MustChangePassword: r.MustChangePassword,
	}
}

// profileResponse mirrors the backend's user payload. tenantId is camelCase
// while must_change_password is snake_case; that is the wire contract, not a
// typo.
type profileResponse struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	TenantID           int64  `json:"tenantId"`
	TenantName         string `json:"tenantName"`
	Avatar             string `json:"avatar"`
	MustChangePassword bool   `json:"must_change_password"`
}

func (p profileResponse) profile() *session.UserProfile {
	return &session.UserProfile{
		ID:                 p.ID,
		Username:           p.Username,
		Email:              p.Email,
		Role:               session.ParseRole(p.Role),
		TenantID:           p.TenantID,
		TenantName:         p.TenantName,
		Avatar:             p.Avatar,
		MustChangePassword: p.MustChangePassword,
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetConfirmRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// Login exchanges credentials for a token grant. Sent without a bearer header
// so a stale token cannot shadow the credentials, and a 401 here means bad
// credentials rather than an expired session.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.TokenGrant, error) {
	var res tokenResponse
	err := c.t.Post(ctx, "/auth/login", loginRequest{Username: creds.Username, Password: creds.Password}, &res, transport.WithoutAuth())
	if err != nil {
		return nil, err
	}
	return res.grant(), nil
}

// Logout revokes the session server-side. Best effort by contract; a dead
// token is surfaced as a plain error, never routed into the refresh protocol.
func (c *Client) Logout(ctx context.Context) error {
	return c.t.Post(ctx, "/auth/logout", nil, nil, transport.WithoutRetry())
}

// Refresh exchanges the refresh token for a new grant. Outside the refresh
// protocol by definition: it is the refresh protocol.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*session.TokenGrant, error) {
	var res tokenResponse
	err := c.t.Post(ctx, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &res, transport.WithoutAuth())
	if err != nil {
		return nil, err
	}
	return res.grant(), nil
}

// Profile fetches the current user.
func (c *Client) Profile(ctx context.Context) (*session.UserProfile, error) {
	var res profileResponse
	if err := c.t.Get(ctx, "/auth/profile", &res); err != nil {
		return nil, err
	}
	return res.profile(), nil
}

// ChangePassword submits a password change for the logged-in user.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.t.Post(ctx, "/auth/password/change", changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}

// RequestPasswordReset starts the email reset flow.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.t.Post(ctx, "/auth/password-reset/request", passwordResetRequest{Email: email}, nil, transport.WithoutAuth())
}

// ConfirmPasswordReset completes the email reset flow.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, code, password string) error {
	return c.t.Post(ctx, "/auth/password-reset/confirm", passwordResetConfirmRequest{Email: email, Code: code, Password: password}, nil, transport.WithoutAuth())
}

// Validate asks the backend whether the current access token is still good.
func (c *Client) Validate(ctx context.Context) (bool, error) {
	var res validateResponse
	if err := c.t.Get(ctx, "/auth/validate", &res, transport.WithoutRetry()); err != nil {
		return false, err
	}
	return res.Valid, nil
}
