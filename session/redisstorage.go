package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStorage persists the token pair in redis, for deployments where the
// session is shared across processes (kiosk consoles, the dashboard BFF).
// Both keys are written in one pipeline so a reader never observes a
// half-updated pair.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStorage builds a redis-backed Storage. prefix namespaces the two
// keys, e.g. "gpucloud:user42:".
func NewRedisStorage(rdb *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (r *RedisStorage) accessKey() string  { return r.prefix + StorageKeyAccessToken }
func (r *RedisStorage) refreshKey() string { return r.prefix + StorageKeyRefreshToken }

// Load reads the persisted pair; missing keys mean an empty session.
func (r *RedisStorage) Load(ctx context.Context) (string, string, error) {
	vals, err := r.rdb.MGet(ctx, r.accessKey(), r.refreshKey()).Result()
	if err != nil {
		return "", "", errors.Wrap(err, "session: load tokens from redis")
	}
	access, _ := vals[0].(string)
	refresh, _ := vals[1].(string)
	return access, refresh, nil
}

// Save writes both tokens atomically.
func (r *RedisStorage) Save(ctx context.Context, access, refresh string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.accessKey(), access, 0)
		pipe.Set(ctx, r.refreshKey(), refresh, 0)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "session: save tokens to redis")
	}
	return nil
}

// Clear deletes both keys.
func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.accessKey(), r.refreshKey()).Err(); err != nil {
		return errors.Wrap(err, "session: clear tokens in redis")
	}
	return nil
}
