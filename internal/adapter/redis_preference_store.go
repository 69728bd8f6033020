package adapter

import (
	"context"
	"errors"
	"time"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// sharedReadTimeout bounds a read that several callers wait on.
const sharedReadTimeout = 5 * time.Second

// RedisPreferenceStore implements domain.PreferenceStore on top of a Redis client.
// Values never expire.
type RedisPreferenceStore struct {
	client    *redis.Client
	namespace string
	// reads collapses concurrent Gets of one key; every model call reads the API key.
	reads singleflight.Group
}

// NewRedisPreferenceStore creates a store whose keys live under namespace.
// It expects a connected *redis.Client.
func NewRedisPreferenceStore(client *redis.Client, namespace string) *RedisPreferenceStore {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisPreferenceStore{client: client, namespace: namespace}
}

// Get retrieves a preference.
// It translates redis.Nil to domain.ErrPreferenceNotSet.
func (r *RedisPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	return r.await(ctx, r.fetch(ctx, key))
}

// fetch joins or starts the shared read of key. The read runs detached from ctx so that one
// caller giving up does not fail the others waiting on it.
func (r *RedisPreferenceStore) fetch(ctx context.Context, key string) <-chan singleflight.Result {
	redisKey := cache.PreferenceKey(r.namespace, key)
	return r.reads.DoChan(redisKey, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return r.client.Get(readCtx, redisKey).Result()
	})
}

func (r *RedisPreferenceStore) await(ctx context.Context, ch <-chan singleflight.Result) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, redis.Nil) {
				return "", domain.ErrPreferenceNotSet
			}
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Set stores a preference without expiration.
func (r *RedisPreferenceStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, cache.PreferenceKey(r.namespace, key), value, 0).Err()
}

// Ping checks the health of the Redis server.
func (r *RedisPreferenceStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ domain.PreferenceStore = (*RedisPreferenceStore)(nil)
