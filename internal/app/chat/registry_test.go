package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLen(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	a := NewSession("alice")
	b := NewSession("bob")

	r.Register(a)
	r.Register(b)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_AllowsMultipleSessionsPerIdentity(t *testing.T) {
	r := NewRegistry()

	first := NewSession("alice")
	second := NewSession("alice")

	r.Register(first)
	r.Register(second)

	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DeregisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s := NewSession("alice")

	r.Register(s)
	require.Equal(t, 1, r.Len())

	r.Deregister(s)
	assert.Equal(t, 0, r.Len())

	// A second deregister is a no-op, not an error.
	r.Deregister(s)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_DeregisteredHandleIsInert(t *testing.T) {
	r := NewRegistry()
	s := NewSession("alice")

	r.Register(s)
	r.Deregister(s)

	err := s.Deliver([]byte("late frame"))
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRegistry_ForEachVisitsEachSessionOnce(t *testing.T) {
	r := NewRegistry()

	sessions := make([]*Session, 0, 10)
	for i := 0; i < 10; i++ {
		s := NewSession("user")
		sessions = append(sessions, s)
		r.Register(s)
	}

	visited := make(map[*Session]int)
	r.ForEach(func(s *Session) {
		visited[s]++
	})

	require.Len(t, visited, 10)
	for _, s := range sessions {
		assert.Equal(t, 1, visited[s])
	}
}

func TestRegistry_ConcurrentOperations(t *testing.T) {
	r := NewRegistry()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s := NewSession("user")
				r.Register(s)
				r.ForEach(func(other *Session) {
					_ = other.Identity
				})
				r.Deregister(s)
			}
		}()
	}
	wg.Wait()

	// Every registered session was deregistered again.
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ShutdownClosesAllSessions(t *testing.T) {
	r := NewRegistry()

	a := NewSession("alice")
	b := NewSession("bob")
	r.Register(a)
	r.Register(b)

	r.Shutdown()

	assert.Equal(t, 0, r.Len())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
}
