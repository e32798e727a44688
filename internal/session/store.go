// internal/session/store.go
//
// Persistence interface for idle-expiring session state.
// A session is a flat map of string keys to string values plus the time it
// was last saved. Sessions not saved for longer than the store's idle
// timeout are treated as gone, exactly as if they had never existed.
//
// Implementations:
//   - MemoryStore (memory.go): map guarded by an RWMutex, lost on restart.
//   - SQLiteStore (sqlite.go): single table, survives restarts of one node.

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load for unknown or idle-expired sessions.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for session values.
type Store interface {
	// Load returns a copy of the session's values.
	// Returns ErrNotFound if the session is absent or has been idle too long.
	Load(ctx context.Context, id string) (map[string]string, error)

	// Save replaces the session's values and refreshes its idle timer.
	Save(ctx context.Context, id string, values map[string]string) error

	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes every idle-expired session and reports how many went.
	Sweep(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// expired reports whether a session last saved at seen has outlived idle.
func expired(seen, now time.Time, idle time.Duration) bool {
	return idle > 0 && now.Sub(seen) > idle
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
