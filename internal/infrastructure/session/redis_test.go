package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/skiconcierge/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisStore runs an in-process Redis server for the test
func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	session := sampleSession("s-1", now)
	require.NoError(t, store.Save(ctx, session))

	assert.True(t, mr.Exists("session:s-1"))
	assert.Equal(t, time.Minute, mr.TTL("session:s-1"))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, session.Profile, got.Profile)
	assert.True(t, now.Equal(got.CreatedAt))
	require.Len(t, got.History, 1)
	assert.Equal(t, "Head Kore 85", got.History[0].Recommendations[0].Name)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_SlidingTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("s-1", time.Now())))

	t.Run("get refreshes expiry", func(t *testing.T) {
		mr.FastForward(40 * time.Second)
		_, err := store.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, time.Minute, mr.TTL("session:s-1"))

		mr.FastForward(40 * time.Second)
		_, err = store.Get(ctx, "s-1")
		assert.NoError(t, err)
	})

	t.Run("expires after ttl without access", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		_, err := store.Get(ctx, "s-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("s-1", time.Now())))
	require.NoError(t, store.Delete(ctx, "s-1"))

	assert.False(t, mr.Exists("session:s-1"))
	_, err := store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// missing keys are not an error
	assert.NoError(t, store.Delete(ctx, "s-1"))
}

func TestRedisStore_SaveInvalid(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidRequest)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.Session{}), domain.ErrInvalidRequest)
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("session:s-1", "not json"))

	_, err := store.Get(context.Background(), "s-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	mr.Close()

	_, err := store.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = store.Save(ctx, sampleSession("s-1", time.Now()))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = store.Delete(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestNewRedisStoreFromURL(t *testing.T) {
	ctx := context.Background()

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		store, err := NewRedisStoreFromURL(ctx, "redis://"+mr.Addr()+"/0", 0)
		require.NoError(t, err)
		defer store.Close()

		assert.Equal(t, DefaultTTL, store.ttl)
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		_, err := NewRedisStoreFromURL(ctx, "not a url", time.Minute)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("reports unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisStoreFromURL(ctx, "redis://"+addr, time.Minute)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
}
