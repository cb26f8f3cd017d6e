/*
Package chat contains the core logic for session tracking, message broadcasting,
and per-connection lifecycle management.

This file defines the Session struct: the live binding of one authenticated
identity to one connection's outbound delivery channel.
*/
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sendChannelBuffer is the capacity of a session's outbound queue.
const sendChannelBuffer = 256

var (
	// ErrSessionClosed is returned by Deliver after the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrSendBufferFull is returned by Deliver when the outbound queue is full,
	// which indicates a stalled or dead consumer.
	ErrSendBufferFull = errors.New("session send buffer full")
)

// Session binds an authenticated identity to one connection's outbound channel
// for the duration of that connection. It is created at successful
// authentication, owned by the Registry while registered, and becomes inert
// once closed: delivering through a closed Session returns an error, never a
// live delivery.
type Session struct {
	// ID uniquely identifies this connection. Identities are not unique in the
	// registry (multiple simultaneous logins are allowed), session IDs are.
	ID uuid.UUID

	// Identity is the authenticated username bound to this connection.
	Identity string

	// ConnectedAt records when the session was established.
	ConnectedAt time.Time

	// mu guards closed and serializes Deliver against Close, so a send can
	// never race a channel close.
	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// NewSession creates a live Session for the given authenticated identity.
func NewSession(identity string) *Session {
	return &Session{
		ID:          uuid.New(),
		Identity:    identity,
		ConnectedAt: time.Now().UTC(),
		send:        make(chan []byte, sendChannelBuffer),
	}
}

// Deliver queues a frame for the connection's write loop. It never blocks:
// a full buffer or a closed session is reported as an error so the caller can
// treat the recipient as dead.
func (s *Session) Deliver(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	select {
	case s.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Outbound exposes the read side of the delivery channel to the write loop.
// The channel is closed exactly once when the session closes.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// Close marks the session closed and closes the outbound channel. It is
// idempotent and safe to call concurrently with Deliver.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.send)
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
