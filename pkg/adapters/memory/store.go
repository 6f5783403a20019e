package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/golang/groupcache/lru"
)

// DefaultCapacity bounds the number of sessions kept when none is configured.
const DefaultCapacity = 10000

// Store implements ports.SessionStore in memory.
// Entries expire TTL after their last save, and once capacity is reached the
// least recently used session is evicted. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache

	// deadlines mirrors the cache keys so List can scan without reordering.
	deadlines map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets how long a session lives after its last save. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithCapacity sets the maximum number of sessions kept.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.cache.MaxEntries = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		cache:     lru.New(DefaultCapacity),
		deadlines: make(map[string]time.Time),
		now:       time.Now,
	}
	s.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		delete(s.deadlines, key.(string))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists a copy of the conversation.
func (s *Store) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	var deadline time.Time
	if s.ttl > 0 {
		deadline = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(sessionID, conv.Clone())
	s.deadlines[sessionID] = deadline
	return nil
}

// Load retrieves a copy of the conversation.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(sessionID) {
		s.cache.Remove(sessionID)
		return nil, domain.ErrSessionNotFound
	}
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.Conversation).Clone(), nil
}

// Delete removes the conversation.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(sessionID)
	return nil
}

// List returns active sessions, dropping expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	ids := make([]string, 0, len(s.deadlines))
	for id := range s.deadlines {
		if s.expired(id) {
			expired = append(expired, id)
			continue
		}
		ids = append(ids, id)
	}
	for _, id := range expired {
		s.cache.Remove(id)
	}
	return ids, nil
}

// Len reports the number of stored sessions, including expired ones not yet purged.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func (s *Store) expired(id string) bool {
	deadline, ok := s.deadlines[id]
	return ok && !deadline.IsZero() && !s.now().Before(deadline)
}
