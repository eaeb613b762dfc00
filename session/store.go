package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNoRefreshToken is returned when a refresh is attempted without a refresh
// token. The caller must treat it as "re-login required"; no network call is
// made.
var ErrNoRefreshToken = errors.New("no refresh token available")

// AuthAPI is the slice of the auth endpoints the store drives. Implemented by
// the authapi package; an interface so tests can substitute a fake.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*TokenGrant, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)
	Profile(ctx context.Context) (*UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Store owns the session state. All other components read it through the
// accessors and mutate it only via Login/Logout/RefreshAccessToken/
// FetchProfile (plus the gateway's ForceLogout on terminal auth failure) —
// never directly.
type Store struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *UserProfile

	api     AuthAPI
	storage Storage
	log     zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a zerolog logger to the store.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore builds a Store and hydrates the token pair from storage, so a
// restarted process resumes its previous session. The profile is not
// persisted; it stays nil until the first FetchProfile.
func NewStore(ctx context.Context, api AuthAPI, storage Storage, opts ...StoreOption) (*Store, error) {
	if api == nil {
		return nil, errors.New("session: auth API is required")
	}
	if storage == nil {
		return nil, errors.New("session: storage is required")
	}

	s := &Store{
		api:     api,
		storage: storage,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	access, refresh, err := storage.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "session: hydrate tokens")
	}
	s.accessToken = access
	s.refreshToken = refresh
	if access != "" {
		s.log.Debug().Msg("session hydrated from storage")
	}
	return s, nil
}

// Login authenticates, stores and persists the token pair, then fetches the
// profile. A profile-fetch failure does not fail the login: the tokens are
// valid regardless. When the login response flagged a forced password change,
// a minimal profile carrying just that flag is kept so the route guard can
// still steer the user to the change-password flow.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	grant, err := s.api.Login(ctx, creds)
	if err != nil {
		return err
	}
	if err := s.setTokens(ctx, grant.AccessToken, grant.RefreshToken); err != nil {
		return err
	}

	if _, err := s.FetchProfile(ctx); err != nil {
		s.log.Warn().Err(err).Msg("profile fetch failed after login")
		if grant.MustChangePassword {
			s.mu.Lock()
			s.user = &UserProfile{MustChangePassword: true}
			s.mu.Unlock()
		}
	}
	return nil
}

// Logout tells the backend to revoke the session, then clears all local
// state. The remote call is best effort: whatever it returns, the local and
// persisted session is gone afterwards. Logout never fails.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	s.clear(ctx)
}

// ForceLogout clears local state without the remote call. The gateway uses it
// on terminal auth failure, where the credentials are already rejected.
func (s *Store) ForceLogout(ctx context.Context) {
	s.clear(ctx)
}

// RefreshAccessToken exchanges the refresh token for a new access token and
// persists the result. Fails with ErrNoRefreshToken when there is nothing to
// exchange. Only the token pair changes; the profile is untouched.
func (s *Store) RefreshAccessToken(ctx context.Context) error {
	s.mu.RLock()
	refresh := s.refreshToken
	s.mu.RUnlock()
	if refresh == "" {
		return ErrNoRefreshToken
	}

	grant, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		return errors.Wrap(err, "session: refresh access token")
	}
	// The backend may rotate the refresh token; keep the old one when it
	// does not.
	if grant.RefreshToken != "" {
		refresh = grant.RefreshToken
	}
	return s.setTokens(ctx, grant.AccessToken, refresh)
}

// FetchProfile loads the current user's profile into the store.
func (s *Store) FetchProfile(ctx context.Context) (*UserProfile, error) {
	profile, err := s.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()
	return profile, nil
}

// ChangePassword changes the password and clears the forced-change flag on
// success, releasing the route guard's change-password lock.
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := s.api.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	s.mu.Lock()
	if s.user != nil {
		s.user.MustChangePassword = false
	}
	s.mu.Unlock()
	return nil
}

// AccessToken returns the current bearer token, empty when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the cached profile, nil while the fetch is pending or failed.
func (s *Store) User() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether an access token is present. The profile may
// still be nil while this is true.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// IsAdmin reports whether the cached profile has the admin role.
func (s *Store) IsAdmin() bool {
	u := s.User()
	return u != nil && u.Role.IsAdmin()
}

// IsCustomer reports whether the cached profile has a customer-side role.
func (s *Store) IsCustomer() bool {
	u := s.User()
	return u != nil && u.Role.IsCustomer()
}

// MustChangePassword reports whether the account is locked to the
// change-password flow.
func (s *Store) MustChangePassword() bool {
	u := s.User()
	return u != nil && u.MustChangePassword
}

// TenantID returns the profile's tenant as a header value, empty when absent.
func (s *Store) TenantID() string {
	u := s.User()
	if u == nil || u.TenantID == 0 {
		return ""
	}
	return strconv.FormatInt(u.TenantID, 10)
}

// TokenExpiresAt extracts the exp claim from the access token without
// verifying the signature (verification is the backend's job). Best effort:
// ok is false for opaque or claimless tokens.
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// setTokens updates the pair in memory and mirrors it to storage before
// returning.
func (s *Store) setTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
	if err := s.storage.Save(ctx, access, refresh); err != nil {
		return errors.Wrap(err, "session: persist tokens")
	}
	return nil
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted tokens")
	}
	s.log.Debug().Msg("session cleared")
}
