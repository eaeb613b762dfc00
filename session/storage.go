package session

import "context"

// Storage keys. Every backend persists the token pair under these two names
// so a session written by one deployment mode is readable by another.
const (
	StorageKeyAccessToken  = "accessToken"
	StorageKeyRefreshToken = "refreshToken"
)

// Storage persists the token pair across process restarts. The profile is
// deliberately not persisted; it is re-fetched after hydration.
//
// Save must complete before the store operation that triggered it returns, so
// a restart always observes a consistent pair: both tokens present or both
// absent.
type Storage interface {
	Load(ctx context.Context) (accessToken, refreshToken string, err error)
	Save(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
}
