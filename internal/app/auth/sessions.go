/*
Package auth implements the credential/session store: opaque access tokens
mapped to authenticated identities.

Tokens are issued at login, resolved on every WebSocket connect, and live until
revoked or until the process exits. There is no expiry; that matches the issued
contract and is a known production gap, not an accident.
*/
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore is a process-wide, concurrency-safe map from opaque token to
// identity. It is constructed at service start and injected wherever token
// resolution is needed; it holds no other state.
type SessionStore struct {
	// mu protects concurrent access to the tokens map.
	mu sync.RWMutex

	// tokens maps an opaque access token to the authenticated username.
	tokens map[string]string
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens: make(map[string]string),
	}
}

// Issue mints a fresh opaque token bound to the given identity and returns it.
// Issuing twice for the same identity yields two independent tokens.
func (s *SessionStore) Issue(identity string) string {
	token := uuid.New().String()

	s.mu.Lock()
	s.tokens[token] = identity
	s.mu.Unlock()

	return token
}

// Resolve looks up the identity bound to the token. It is a pure lookup with
// no side effects and is safe to call concurrently with Issue and Revoke.
func (s *SessionStore) Resolve(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.tokens[token]
	return identity, ok
}

// Revoke removes the token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Active returns the number of currently issued tokens.
func (s *SessionStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
