/*
Package chat contains the core logic for session tracking, message broadcasting,
and per-connection lifecycle management.

This file defines the Message value and the wire frames exchanged with clients
over the WebSocket connection.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"chatterbox/internal/pkg/errs"
)

// Frame type discriminators carried in the "type" field of every
// server-to-client frame.
const (
	// FrameHistory tags the one-time batch of recent messages sent to a new
	// connection. Clients render these without "new message" effects.
	FrameHistory = "history"

	// FrameMessage tags a live broadcast message.
	FrameMessage = "message"

	// FrameError tags an error delivered only to the originating connection.
	FrameError = "error"
)

// Message is an immutable chat message. It is created by the Broadcaster on
// receipt of client input, persisted to history, and never mutated afterwards.
type Message struct {
	// ID is the server-assigned unique message identifier.
	ID string

	// Username is the authenticated identity of the author. It is always
	// derived from the session, never from client input.
	Username string

	// Content is the non-empty message text.
	Content string

	// Timestamp is assigned at receipt, in UTC.
	Timestamp time.Time
}

// NewMessage constructs a Message for the given author and content with a
// fresh ID and the current UTC time.
func NewMessage(username, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// wireMessage is the JSON shape of a single message on the wire.
type wireMessage struct {
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func toWire(m Message) wireMessage {
	return wireMessage{
		Username:  m.Username,
		Content:   m.Content,
		Timestamp: m.Timestamp.Format(time.RFC3339Nano),
	}
}

// EncodeLiveFrame serializes a live broadcast frame:
// {"type":"message","username":...,"content":...,"timestamp":...}.
func EncodeLiveFrame(m Message) ([]byte, error) {
	frame := struct {
		Type string `json:"type"`
		wireMessage
	}{
		Type:        FrameMessage,
		wireMessage: toWire(m),
	}

	return json.Marshal(frame)
}

// EncodeHistoryFrame serializes the history batch frame, oldest message first:
// {"type":"history","messages":[...]}.
func EncodeHistoryFrame(messages []Message) ([]byte, error) {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, toWire(m))
	}

	frame := struct {
		Type     string        `json:"type"`
		Messages []wireMessage `json:"messages"`
	}{
		Type:     FrameHistory,
		Messages: wire,
	}

	return json.Marshal(frame)
}

// EncodeErrorFrame serializes an error frame for the originating connection:
// {"type":"error","code":...,"detail":...}.
func EncodeErrorFrame(customErr *errs.CustomError) ([]byte, error) {
	frame := struct {
		Type   string `json:"type"`
		Code   int    `json:"code"`
		Detail string `json:"detail"`
	}{
		Type:   FrameError,
		Code:   customErr.Code,
		Detail: customErr.Message,
	}

	return json.Marshal(frame)
}
