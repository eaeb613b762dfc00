package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/session"
)

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := session.NewFileStorage(filepath.Join(t.TempDir(), "nested", "tokens.json"))

	access, refresh, err := storage.Load(ctx)
	require.NoError(t, err, "missing file is an empty session")
	require.Empty(t, access)
	require.Empty(t, refresh)

	require.NoError(t, storage.Save(ctx, "a1", "r1"))
	access, refresh, err = storage.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "a1", access)
	require.Equal(t, "r1", refresh)

	require.NoError(t, storage.Clear(ctx))
	access, refresh, err = storage.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, refresh)

	require.NoError(t, storage.Clear(ctx), "clearing an empty session is fine")
}

func TestRedisStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	storage := session.NewRedisStorage(rdb, "gpucloud:test:")

	access, refresh, err := storage.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, access)
	require.Empty(t, refresh)

	require.NoError(t, storage.Save(ctx, "a1", "r1"))

	got, err := mr.Get("gpucloud:test:" + session.StorageKeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "a1", got)

	access, refresh, err = storage.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "a1", access)
	require.Equal(t, "r1", refresh)

	require.NoError(t, storage.Clear(ctx))
	require.False(t, mr.Exists("gpucloud:test:"+session.StorageKeyAccessToken))
	require.False(t, mr.Exists("gpucloud:test:"+session.StorageKeyRefreshToken))
}
