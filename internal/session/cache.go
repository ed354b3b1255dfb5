package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"gymflow/internal/auth"
)

var ErrNotFound = errors.New("session not found")

// Cache keeps login sessions and failed-login counters.
type Cache interface {
	Save(ctx context.Context, s *auth.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*auth.Session, error)
	Delete(ctx context.Context, sessionID string) error
	// RecordFailure bumps the counter for key and returns its value. The
	// counter expires window after the first failure.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error)
	ResetFailures(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	session   auth.Session
	expiresAt time.Time
}

type counter struct {
	count     int64
	expiresAt time.Time
}

const sweepInterval = time.Minute

type memoryCache struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	failures  map[string]counter
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCache returns a process-local Cache for development and tests.
func NewMemoryCache() Cache {
	return &memoryCache{
		sessions: make(map[string]memoryEntry),
		failures: make(map[string]counter),
		now:      time.Now,
	}
}

// sweep drops expired sessions and counters at most once per sweepInterval.
// Callers hold c.mu.
func (c *memoryCache) sweep(now time.Time) {
	if now.Sub(c.lastSweep) < sweepInterval {
		return
	}
	for id, entry := range c.sessions {
		if !now.Before(entry.expiresAt) {
			delete(c.sessions, id)
		}
	}
	for key, entry := range c.failures {
		if !now.Before(entry.expiresAt) {
			delete(c.failures, key)
		}
	}
	c.lastSweep = now
}

func (c *memoryCache) Save(ctx context.Context, s *auth.Session, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	c.sessions[s.SessionID] = memoryEntry{session: *s, expiresAt: now.Add(ttl)}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.sessions, sessionID)
		return nil, ErrNotFound
	}
	s := entry.session
	return &s, nil
}

func (c *memoryCache) Delete(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	return nil
}

func (c *memoryCache) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	entry, ok := c.failures[key]
	if !ok || !now.Before(entry.expiresAt) {
		entry = counter{expiresAt: now.Add(window)}
	}
	entry.count++
	c.failures[key] = entry
	return entry.count, nil
}

func (c *memoryCache) ResetFailures(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failures, key)
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryCache) Close() error {
	return nil
}
