package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
)

// DefaultTTL is how long an idle conversation is kept
const DefaultTTL = 24 * time.Hour

// storedSession is a session serialized at save time, with its expiry
type storedSession struct {
	Data       []byte
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory session store with sliding TTL
type MemoryStore struct {
	data  map[string]storedSession
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-memory session store.
// A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	store := &MemoryStore{
		data: make(map[string]storedSession),
		ttl:  ttl,
		now:  time.Now,
		done: make(chan struct{}),
	}

	// Remove expired sessions every 10 minutes
	go store.cleanupExpired(10 * time.Minute)

	return store
}

// Get retrieves a copy of a session and extends its expiry
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item, exists := s.data[id]
	if !exists || s.now().After(item.Expiration) {
		delete(s.data, id)
		return nil, domain.ErrSessionNotFound
	}

	var session domain.Session
	if err := json.Unmarshal(item.Data, &session); err != nil {
		return nil, eris.Wrapf(err, "decode session %s", id)
	}

	item.Expiration = s.now().Add(s.ttl)
	s.data[id] = item

	return &session, nil
}

// Save stores a copy of the session.
// Serializing at save time keeps callers from mutating stored state, like Redis.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidRequest
	}

	data, err := json.Marshal(session)
	if err != nil {
		return eris.Wrapf(err, "encode session %s", session.ID)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[session.ID] = storedSession{
		Data:       data,
		Expiration: s.now().Add(s.ttl),
	}

	return nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// cleanupExpired removes expired sessions periodically until Close
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for id, item := range s.data {
		if now.After(item.Expiration) {
			delete(s.data, id)
		}
	}
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Size returns the current number of stored sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes all sessions
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string]storedSession)
}
