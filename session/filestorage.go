package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStorage persists the token pair as a JSON file, the default for the
// CLI. The file is written with owner-only permissions.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

type fileTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewFileStorage builds a file-backed Storage at path. The parent directory
// is created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the persisted pair. A missing file is an empty session, not an
// error.
func (f *FileStorage) Load(_ context.Context) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", errors.Wrap(err, "session: read token file")
	}
	var t fileTokens
	if err := json.Unmarshal(raw, &t); err != nil {
		return "", "", errors.Wrap(err, "session: parse token file")
	}
	return t.AccessToken, t.RefreshToken, nil
}

// Save writes both tokens in one atomic file write.
func (f *FileStorage) Save(_ context.Context, access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "session: create token directory")
	}
	raw, err := json.Marshal(fileTokens{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return errors.Wrap(err, "session: encode tokens")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "session: write token file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "session: replace token file")
	}
	return nil
}

// Clear removes the token file. Clearing an already-empty session succeeds.
func (f *FileStorage) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "session: remove token file")
	}
	return nil
}
