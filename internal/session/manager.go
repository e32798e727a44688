// internal/session/manager.go
//
// Request-scoped access to stored sessions.
// Responsibilities:
//   - Hand out one *Session per request, holding that session's lock until
//     Close so requests for the same session run one after another.
//   - Canonicalise values to upper case at the Get/Set boundary.
//   - Write back on Commit (or delete when a cleared session is left empty).
//   - Periodically sweep idle-expired sessions from the store.

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.New().String()
}

// Manager opens sessions from a Store and serializes access per session ID.
type Manager struct {
	store Store

	mu    sync.Mutex
	locks map[string]*idLock // refcounted, removed when unused

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager wraps store. The manager owns the store and closes it in Close.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*idLock),
		stop:  make(chan struct{}),
	}
}

// Open locks the session with the given ID and loads its values. Unknown or
// expired sessions open empty. The caller must Close the returned session.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, errors.New("session: empty id")
	}
	l := m.acquire(id)

	values, err := m.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		values = map[string]string{}
	case err != nil:
		m.release(id, l)
		return nil, fmt.Errorf("open session: %w", err)
	}

	return &Session{id: id, values: values, m: m, lock: l}, nil
}

// StartJanitor sweeps expired sessions every interval until Close.
func (m *Manager) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		return
	}
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				n, err := m.store.Sweep(context.Background())
				if err != nil {
					log.Warn().Err(err).Msg("sweep expired sessions")
					continue
				}
				if n > 0 {
					log.Debug().Int("removed", n).Msg("expired sessions swept")
				}
			}
		}
	}()
}

// Close stops the janitor and closes the store.
func (m *Manager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.done != nil {
		<-m.done
	}
	return m.store.Close()
}

func (m *Manager) acquire(id string) *idLock {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &idLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return l
}

func (m *Manager) release(id string, l *idLock) {
	l.mu.Unlock()

	m.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, id)
	}
	m.mu.Unlock()
}

// Session is one request's view of a stored session. It satisfies
// game.Session. Not safe for concurrent use; the manager guarantees that
// only one Session per ID is open at a time.
type Session struct {
	id      string
	values  map[string]string
	cleared bool

	m      *Manager
	lock   *idLock
	closed bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Get returns the value for key, or "" if unset.
func (s *Session) Get(key string) string {
	return s.values[key]
}

// Set stores value under key, upper-cased.
func (s *Session) Set(key, value string) {
	s.values[key] = strings.ToUpper(value)
}

// Clear removes every key.
func (s *Session) Clear() {
	clear(s.values)
	s.cleared = true
}

// Commit writes the values back to the store, refreshing the idle timer.
// A session left empty after Clear is deleted instead.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return errors.New("session: commit after close")
	}
	if len(s.values) == 0 {
		if s.cleared {
			return s.m.store.Delete(ctx, s.id)
		}
		return nil
	}
	return s.m.store.Save(ctx, s.id, s.values)
}

// Close releases the session lock. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.m.release(s.id, s.lock)
}
