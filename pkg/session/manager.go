// Package session serializes access to industry trees. One run owns an
// industry at a time: within a process through reference-counted mutexes,
// across processes through an optional distributed locker.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block an industry.
// Expansion runs refresh nothing, so the TTL must cover a realistic run.
const DefaultLockTTL = 5 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates tree access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.TreeStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Manager over the given tree store.
func NewManager(store ports.TreeStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(industry) after
// unlocking.
func (m *Manager) acquire(industry string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[industry]
	if !exists {
		entry = &lockEntry{}
		m.locks[industry] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(industry string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[industry]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, industry)
	}
}

// Load retrieves an industry tree under its lock.
func (m *Manager) Load(ctx context.Context, industry string) (*domain.Tree, error) {
	var tree *domain.Tree
	err := m.WithLock(ctx, industry, func(ctx context.Context) error {
		var err error
		tree, err = m.store.LoadTree(ctx, industry)
		return err
	})
	return tree, err
}

// Delete removes an industry tree under its lock.
func (m *Manager) Delete(ctx context.Context, industry string) error {
	return m.WithLock(ctx, industry, func(ctx context.Context) error {
		return m.store.Delete(ctx, industry)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying tree store.
func (m *Manager) Store() ports.TreeStore {
	return m.store
}

// WithLock executes a function while holding the lock for the industry.
func (m *Manager) WithLock(ctx context.Context, industry string, fn func(context.Context) error) error {
	entry := m.acquire(industry)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(industry)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, industry, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"industry", industry,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
