package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// storeFactories lets every behavioural test run against both backends.
func storeFactories(t *testing.T) map[string]func(idle time.Duration, clock *fakeClock) Store {
	return map[string]func(idle time.Duration, clock *fakeClock) Store{
		"memory": func(idle time.Duration, clock *fakeClock) Store {
			return NewMemoryStore(idle, WithClock(clock.Now))
		},
		"sqlite": func(idle time.Duration, clock *fakeClock) Store {
			path := filepath.Join(t.TempDir(), "data", "sessions.db")
			st, err := OpenSQLite(context.Background(), path, idle, WithClock(clock.Now))
			require.NoError(t, err)
			t.Cleanup(func() { _ = st.Close() })
			return st
		},
	}
}

func TestStoreRoundTripAndExpiry(t *testing.T) {
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			st := mk(20*time.Second, clock)

			_, err := st.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Save(ctx, "a", map[string]string{"RandomWord": "CAT"}))
			got, err := st.Load(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"RandomWord": "CAT"}, got)

			clock.Advance(20 * time.Second)
			_, err = st.Load(ctx, "a")
			assert.NoError(t, err, "exactly at the timeout the session is still alive")

			clock.Advance(time.Second)
			_, err = st.Load(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreSaveRefreshesIdleTimer(t *testing.T) {
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			st := mk(20*time.Second, clock)

			require.NoError(t, st.Save(ctx, "a", map[string]string{"k": "1"}))
			clock.Advance(15 * time.Second)
			require.NoError(t, st.Save(ctx, "a", map[string]string{"k": "2"}))
			clock.Advance(15 * time.Second)

			got, err := st.Load(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "2", got["k"])
		})
	}
}

func TestStoreSweepAndDelete(t *testing.T) {
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			st := mk(time.Minute, clock)

			require.NoError(t, st.Save(ctx, "old", map[string]string{"k": "v"}))
			clock.Advance(2 * time.Minute)
			require.NoError(t, st.Save(ctx, "fresh", map[string]string{"k": "v"}))
			require.NoError(t, st.Save(ctx, "gone", map[string]string{"k": "v"}))
			require.NoError(t, st.Delete(ctx, "gone"))
			require.NoError(t, st.Delete(ctx, "never-existed"))

			n, err := st.Sweep(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			_, err = st.Load(ctx, "fresh")
			assert.NoError(t, err)
			_, err = st.Load(ctx, "gone")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(0)
	in := map[string]string{"k": "v"}
	require.NoError(t, st.Save(ctx, "a", in))
	in["k"] = "changed"

	out, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", out["k"])
	out["k"] = "mutated"

	again, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", again["k"])
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	st, err := OpenSQLite(ctx, path, time.Minute)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, "a", map[string]string{"RandomWord": "DOG"}))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path, time.Minute)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "DOG", got["RandomWord"])
}

func TestManagerOpenCommitAndUppercase(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	m := NewManager(st)
	defer m.Close()

	s, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "", s.Get("RandomWord"))
	s.Set("RandomWord", "cat")
	assert.Equal(t, "CAT", s.Get("RandomWord"))
	require.NoError(t, s.Commit(ctx))
	s.Close()
	s.Close()

	s, err = m.Open(ctx, "abc")
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "CAT", s.Get("RandomWord"))
}

func TestManagerClearedSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	m := NewManager(st)
	defer m.Close()

	require.NoError(t, st.Save(ctx, "abc", map[string]string{"RandomWord": "CAT"}))

	s, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	s.Clear()
	require.NoError(t, s.Commit(ctx))
	s.Close()

	assert.Equal(t, 0, st.Len())
}

func TestManagerUntouchedEmptySessionIsNotSaved(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	m := NewManager(st)
	defer m.Close()

	s, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx))
	s.Close()

	assert.Equal(t, 0, st.Len())
}

func TestManagerSerializesSameSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Minute))
	defer m.Close()

	first, err := m.Open(ctx, "abc")
	require.NoError(t, err)

	opened := make(chan *Session)
	go func() {
		s, err := m.Open(ctx, "abc")
		if err != nil {
			close(opened)
			return
		}
		opened <- s
	}()

	select {
	case <-opened:
		t.Fatal("second Open returned while the first session was still open")
	case <-time.After(50 * time.Millisecond):
	}

	// a different session is not blocked
	other, err := m.Open(ctx, "xyz")
	require.NoError(t, err)
	other.Close()

	first.Set("RandomWord", "cat")
	require.NoError(t, first.Commit(ctx))
	first.Close()

	select {
	case second := <-opened:
		require.NotNil(t, second)
		assert.Equal(t, "CAT", second.Get("RandomWord"))
		second.Close()
	case <-time.After(time.Second):
		t.Fatal("second Open never returned")
	}

	m.mu.Lock()
	assert.Empty(t, m.locks)
	m.mu.Unlock()
}

func TestManagerJanitorSweeps(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	st := NewMemoryStore(time.Second, WithClock(clock.Now))
	require.NoError(t, st.Save(ctx, "abc", map[string]string{"k": "v"}))
	clock.Advance(time.Minute)

	m := NewManager(st)
	m.StartJanitor(5 * time.Millisecond)

	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, m.Close())
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
