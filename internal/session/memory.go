// internal/session/memory.go
//
// In-memory implementation of the Store interface.
// Default backend; state lives only as long as the process and the idle
// timeout allow.
//
// Characteristics:
//   - Stores value maps keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out so callers never share a map with the store.
//   - Expired entries are invisible to Load and removed by Sweep.

package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	values   map[string]string
	lastSeen time.Time
}

// MemoryStore is an in-memory, map-based Store.
type MemoryStore struct {
	mu       sync.RWMutex         // guards sessions
	sessions map[string]*memEntry // keyed by session ID
	idle     time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs an empty in-memory store whose sessions expire
// after idle without a Save. A zero idle disables expiry.
func NewMemoryStore(idle time.Duration, opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		sessions: make(map[string]*memEntry),
		idle:     idle,
		now:      o.now,
	}
}

// Load looks up a session by ID.
func (m *MemoryStore) Load(ctx context.Context, id string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || expired(e.lastSeen, m.now(), m.idle) {
		return nil, ErrNotFound
	}
	return copyValues(e.values), nil
}

// Save adds or replaces the session's values.
func (m *MemoryStore) Save(ctx context.Context, id string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &memEntry{values: copyValues(values), lastSeen: m.now()}
	return nil
}

// Delete drops the session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops every expired session.
func (m *MemoryStore) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, e := range m.sessions {
		if expired(e.lastSeen, now, m.idle) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many sessions are held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
