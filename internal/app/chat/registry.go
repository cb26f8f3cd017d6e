/*
Package chat contains the core logic for session tracking, message broadcasting,
and per-connection lifecycle management.

This file defines the Registry, the exclusive authority over the set of
currently live sessions. All membership mutation goes through it.
*/
package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chatterbox/internal/pkg/logx"
)

// Registry tracks every live Session and hands out membership snapshots for
// fan-out. One identity may hold several sessions at once; sessions are keyed
// by their per-connection ID.
type Registry struct {
	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	// sessions holds all currently registered sessions, keyed by session ID.
	sessions map[uuid.UUID]*Session

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register adds the session to the membership set.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	total := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info().
		Str("session_id", s.ID.String()).
		Str("identity", s.Identity).
		Int("total_sessions", total).
		Msg("Session registered.")
}

// Deregister removes the session from the membership set and closes its
// outbound channel. It is idempotent: deregistering an unknown or already
// removed session is a no-op beyond ensuring the session is closed.
func (r *Registry) Deregister(s *Session) {
	r.mu.Lock()
	_, present := r.sessions[s.ID]
	if present {
		delete(r.sessions, s.ID)
	}
	total := len(r.sessions)
	r.mu.Unlock()

	// The handle must be inert even if it was never registered.
	s.Close()

	if present {
		r.logger.Info().
			Str("session_id", s.ID.String()).
			Str("identity", s.Identity).
			Int("total_sessions", total).
			Msg("Session deregistered.")
	}
}

// ForEach invokes f with every session in a snapshot of the membership set
// taken at call time. Sessions registered or deregistered while f runs are
// neither guaranteed included nor excluded, but each session in the snapshot
// is visited exactly once and the underlying map is never observed mid-mutation.
func (r *Registry) ForEach(f func(*Session)) {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		f(s)
	}
}

// Len returns the number of currently registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown deregisters and closes every live session. Used during graceful
// server shutdown so no connection task outlives the process teardown.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	remaining := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		remaining = append(remaining, s)
	}
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, s := range remaining {
		s.Close()
	}

	r.logger.Info().Int("closed_sessions", len(remaining)).Msg("Registry shutdown complete.")
}
