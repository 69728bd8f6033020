package adapter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPreferenceStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisPreferenceStore(db, "classroom-1")
	ctx := context.Background()
	key := cache.PreferenceKey("classroom-1", domain.PrefAutoGenerate)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal("true")
		val, err := store.Get(ctx, domain.PrefAutoGenerate)
		assert.NoError(t, err)
		assert.Equal(t, "true", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotSet", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := store.Get(ctx, domain.PrefAutoGenerate)
		assert.ErrorIs(t, err, domain.ErrPreferenceNotSet)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectGet(key).SetErr(redisErr)
		val, err := store.Get(ctx, domain.PrefAutoGenerate)
		assert.ErrorIs(t, err, redisErr)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// heldGetHook answers GET commands itself once release is closed.
type heldGetHook struct {
	value   string
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
	ctxErr  error
}

func (h *heldGetHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *heldGetHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.calls.Add(1)
		select {
		case h.started <- struct{}{}:
		default:
		}
		<-h.release
		h.ctxErr = ctx.Err()
		cmd.(*redis.StringCmd).SetVal(h.value)
		return nil
	}
}

func (h *heldGetHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisPreferenceStore_Get_CancelledCallerDoesNotFailSharedRead(t *testing.T) {
	hook := &heldGetHook{value: "stored-key", started: make(chan struct{}, 1), release: make(chan struct{})}
	db := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer db.Close()
	db.AddHook(hook)
	store := NewRedisPreferenceStore(db, "classroom-1")

	superseded, cancel := context.WithCancel(context.Background())
	first := store.fetch(superseded, domain.PrefAPIKey)
	second := store.fetch(context.Background(), domain.PrefAPIKey)
	<-hook.started

	cancel()
	_, err := store.await(superseded, first)
	assert.ErrorIs(t, err, context.Canceled)

	close(hook.release)
	val, err := store.await(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "stored-key", val)
	assert.NoError(t, hook.ctxErr)
	assert.Equal(t, int32(1), hook.calls.Load())
}

func TestRedisPreferenceStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisPreferenceStore(db, "")
	ctx := context.Background()
	key := cache.PreferenceKey("default", domain.PrefOutputLanguage)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(key, "en", 0).SetVal("OK")
		err := store.Set(ctx, domain.PrefOutputLanguage, "en")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectSet(key, "en", 0).SetErr(redisErr)
		err := store.Set(ctx, domain.PrefOutputLanguage, "en")
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisPreferenceStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisPreferenceStore(db, "default")

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryPreferenceStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPreferenceStore(map[string]string{domain.PrefAPIKey: "seed"})

	val, err := store.Get(ctx, domain.PrefAPIKey)
	assert.NoError(t, err)
	assert.Equal(t, "seed", val)

	_, err = store.Get(ctx, domain.PrefLayout)
	assert.ErrorIs(t, err, domain.ErrPreferenceNotSet)

	assert.NoError(t, store.Set(ctx, domain.PrefLayout, "wide"))
	val, err = store.Get(ctx, domain.PrefLayout)
	assert.NoError(t, err)
	assert.Equal(t, "wide", val)
}
