package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
)

const keyPrefix = "session:"

// RedisStore keeps sessions as JSON documents in Redis with a sliding TTL
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisStoreFromURL connects to redis://host:port/db and checks the connection
func NewRedisStoreFromURL(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "parse redis url")
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, eris.Wrapf(err, "ping %s", opts.Addr))
	}

	return NewRedisStore(rdb, ttl), nil
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Get loads a session and refreshes its TTL
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	// GETEX reads and extends expiry in one round trip
	raw, err := s.rdb.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, eris.Wrapf(err, "get session %s", id))
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, eris.Wrapf(err, "decode session %s", id)
	}
	return &session, nil
}

// Save writes the whole session document
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidRequest
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return eris.Wrapf(err, "encode session %s", session.ID)
	}

	if err := s.rdb.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, eris.Wrapf(err, "save session %s", session.ID))
	}
	return nil
}

// Delete removes a session; deleting a missing key is not an error
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, eris.Wrapf(err, "delete session %s", id))
	}
	return nil
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
