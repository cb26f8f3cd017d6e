/*
Package chat contains the core logic for session tracking, message broadcasting,
and per-connection lifecycle management.

This file defines the Broadcaster, which turns one inbound client payload into
a persisted Message and a delivered broadcast, and which admits new sessions
with a consistent history replay.
*/
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chatterbox/internal/pkg/errs"
	"chatterbox/internal/pkg/logx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message content.
const MaxContentBytes = 5000

// HistoryStore is the durable append-only message log consumed by the
// Broadcaster. Append failures are surfaced but never block delivery.
type HistoryStore interface {
	Append(ctx context.Context, msg Message) error
	RecentN(ctx context.Context, n int) ([]Message, error)
}

// inboundPayload is the only client-to-server message shape:
// {"content": "..."}. The author is always taken from the session.
type inboundPayload struct {
	Content string `json:"content"`
}

// Broadcaster serializes all publishes through one mutex so that persisted
// order matches broadcast order, and admits joining sessions under the same
// lock so a new connection sees a clean cut: every message appended before the
// join lands in its history batch, every later one arrives live, with no
// duplicates and no gaps.
type Broadcaster struct {
	mu       sync.Mutex
	registry *Registry
	history  HistoryStore

	// historyLimit is the number of messages replayed to a joining session.
	historyLimit int

	// structured logger with Broadcaster context.
	logger zerolog.Logger
}

// NewBroadcaster constructs a Broadcaster over the given registry and history store.
func NewBroadcaster(registry *Registry, history HistoryStore, historyLimit int) *Broadcaster {
	return &Broadcaster{
		registry:     registry,
		history:      history,
		historyLimit: historyLimit,
		logger:       logx.Logger().With().Str("component", "Broadcaster").Logger(),
	}
}

// Join admits a new session: it fetches the recent history, queues the history
// frame as the session's first outbound frame, and registers the session.
// The whole sequence holds the publish lock, so no live broadcast can
// interleave between the history snapshot and the registration.
func (b *Broadcaster) Join(ctx context.Context, s *Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	messages, err := b.history.RecentN(ctx, b.historyLimit)
	if err != nil {
		// A new connection without history is still useful; log and replay nothing.
		b.logger.Error().Err(err).Str("identity", s.Identity).Msg("Failed to load history for joining session.")
		messages = nil
	}

	frame, err := EncodeHistoryFrame(messages)
	if err != nil {
		return err
	}

	if err := s.Deliver(frame); err != nil {
		return err
	}

	b.registry.Register(s)
	return nil
}

// Leave removes the session from the membership set. Idempotent.
func (b *Broadcaster) Leave(s *Session) {
	b.registry.Deregister(s)
}

// Publish validates one raw inbound payload from the sender, persists the
// resulting Message, and fans it out to every live session including the
// sender. A validation failure is returned to the caller and nothing is
// persisted or broadcast. A persistence failure is reported to the sender as
// an error frame but never blocks delivery. A recipient whose channel is dead
// is deregistered without affecting the remaining recipients.
func (b *Broadcaster) Publish(sender *Session, raw []byte) *errs.CustomError {
	var payload inboundPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errs.NewError(errs.ErrMessageFormatInvalid)
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return errs.NewError(errs.ErrMessageContentEmpty)
	}
	if len(content) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong, MaxContentBytes)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	msg := NewMessage(sender.Identity, content)

	if err := b.history.Append(context.Background(), msg); err != nil {
		b.logger.Error().
			Err(err).
			Str("message_id", msg.ID).
			Str("identity", sender.Identity).
			Msg("Failed to persist message. Delivering anyway.")

		b.notifyPersistenceFailure(sender)
	}

	frame, err := EncodeLiveFrame(msg)
	if err != nil {
		b.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Error marshaling message for broadcast.")
		return errs.NewError(errs.ErrUnknown, err)
	}

	b.registry.ForEach(func(recipient *Session) {
		if err := recipient.Deliver(frame); err != nil {
			b.logger.Warn().
				Str("session_id", recipient.ID.String()).
				Str("identity", recipient.Identity).
				Err(err).
				Msg("Recipient channel dead, deregistering.")

			b.registry.Deregister(recipient)
		}
	})

	return nil
}

// notifyPersistenceFailure sends the sender a warning frame about a failed
// history append. Best effort: a dead sender channel is left for the fan-out
// path to clean up.
func (b *Broadcaster) notifyPersistenceFailure(sender *Session) {
	frame, err := EncodeErrorFrame(errs.NewError(errs.ErrMessageNotSaved))
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to build persistence warning frame.")
		return
	}

	if err := sender.Deliver(frame); err != nil {
		b.logger.Warn().Err(err).Str("identity", sender.Identity).Msg("Failed to queue persistence warning.")
	}
}
