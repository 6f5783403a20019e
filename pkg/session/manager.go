package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/google/uuid"
)

const (
	// DefaultLockTTL bounds how long a distributed lock is held.
	DefaultLockTTL = 2 * time.Minute
	// DefaultMaxHistory caps the turns kept per conversation.
	DefaultMaxHistory = 20
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker     ports.DistributedLocker // Optional distributed locker
	lockTTL    time.Duration
	maxHistory int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock lease.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithMaxHistory caps stored history; older turns are dropped first.
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		m.maxHistory = n
	}
}

// WithClock overrides the time source for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		locks:      make(map[string]*lockEntry),
		lockTTL:    DefaultLockTTL,
		maxHistory: DefaultMaxHistory,
		now:        time.Now,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing conversation from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	var conv *domain.Conversation
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		conv, err = m.store.Load(ctx, sessionID)
		return err
	})
	return conv, err
}

// Save persists the conversation.
func (m *Manager) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, conv)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// Outcome is the result of one conversational turn.
type Outcome struct {
	SessionID    string
	Result       *domain.PlanResult
	Conversation *domain.Conversation
}

// Continue runs one turn of a conversation. Context stored for the session
// fills whatever the request leaves empty (roles, history, existing learning
// path); a session holding a plan turns the request into a follow-up unless
// req.StartOver is set. After a
// successful run the user/assistant turn pair and the new learning path are
// persisted. An empty sessionID starts a new session. A failed run leaves the
// stored conversation untouched.
func (m *Manager) Continue(ctx context.Context, planner ports.Planner, sessionID string, req domain.PlanRequest) (*Outcome, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var out *Outcome
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		conv, err := m.store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			conv = domain.NewConversation(sessionID)
		} else if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		res, err := planner.Plan(ctx, merge(conv, req))
		if err != nil {
			return err
		}

		m.record(conv, req.Message, res)
		if err := m.store.Save(ctx, sessionID, conv); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		out = &Outcome{SessionID: sessionID, Result: res, Conversation: conv}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func merge(conv *domain.Conversation, req domain.PlanRequest) domain.PlanRequest {
	if req.CurrentRole == "" {
		req.CurrentRole = conv.CurrentRole
	}
	if req.TargetRole == "" {
		req.TargetRole = conv.TargetRole
	}
	if len(req.ConversationHistory) == 0 && len(conv.History) > 0 {
		req.ConversationHistory = append([]domain.Turn(nil), conv.History...)
	}
	if req.StartOver {
		req.IsFollowUp = false
		return req
	}
	if req.ExistingLearningPath == nil && conv.HasPlan() {
		req.ExistingLearningPath = conv.LearningPath.Clone()
	}
	if conv.HasPlan() {
		req.IsFollowUp = true
	}
	return req
}

func (m *Manager) record(conv *domain.Conversation, message string, res *domain.PlanResult) {
	conv.History = append(conv.History,
		domain.Turn{Role: string(domain.RoleUser), Content: message},
		domain.Turn{Role: string(domain.RoleAssistant), Content: res.Summary},
	)
	if m.maxHistory > 0 && len(conv.History) > m.maxHistory {
		conv.History = conv.History[len(conv.History)-m.maxHistory:]
	}
	if res.CurrentRole != "" {
		conv.CurrentRole = res.CurrentRole
	}
	if res.TargetRole != "" {
		conv.TargetRole = res.TargetRole
	}
	if res.LearningPath != nil {
		conv.LearningPath = res.LearningPath.Clone()
	}
	conv.UpdatedAt = m.now()
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a cancelled run still frees the lock.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
