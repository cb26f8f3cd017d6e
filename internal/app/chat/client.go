/*
Package chat contains the core logic for session tracking, message broadcasting,
and per-connection lifecycle management.

This file defines the Client struct, representing an active WebSocket
connection. It runs the connection's read and write loops (ReadPump and
WritePump) and drives the session through its lifecycle: active message loop,
then unconditional deregistration on any disconnect path.
*/
package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatterbox/internal/pkg/errs"
	"chatterbox/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192
)

// Client couples one WebSocket connection with its Session and the Broadcaster.
type Client struct {
	// underlying WebSocket connection object.
	conn *websocket.Conn

	// the live session bound to this connection.
	session *Session

	// broadcaster handles publishes and final deregistration.
	broadcaster *Broadcaster

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection and its session.
func NewClient(conn *websocket.Conn, session *Session, broadcaster *Broadcaster) *Client {
	clientLogger := logx.Logger().With().
		Str("session_id", session.ID.String()).
		Str("identity", session.Identity).
		Logger()

	return &Client{
		conn:        conn,
		session:     session,
		broadcaster: broadcaster,
		logger:      clientLogger,
	}
}

// ReadPump reads inbound frames from the WebSocket connection until it fails
// or closes, handing each payload to the Broadcaster. It handles heartbeats
// (Pong) and performs cleanup when the loop exits, whatever the cause.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		if customErr := c.broadcaster.Publish(c.session, payload); customErr != nil {
			// Validation failures stay local to this connection. The session
			// remains active.
			c.sendError(customErr)
		}
	}
}

// cleanupOnDisconnect deregisters the session and closes the connection.
// Deregistration is idempotent, so concurrent failures from the read and
// write paths cannot double-remove the session.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.broadcaster.Leave(c.session)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// sendError queues an error frame for this connection only.
func (c *Client) sendError(customErr *errs.CustomError) {
	frame, err := EncodeErrorFrame(customErr)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build error frame")
		return
	}

	if err := c.session.Deliver(frame); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to queue error frame")
	}
}

// WritePump writes frames from the session's outbound channel to the WebSocket
// connection and maintains the heartbeat. It exits when the session closes or
// a write fails, closing the connection either way so ReadPump unblocks.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.session.Outbound():
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the outbound channel.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		// Session was closed; tell the client and stop.
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Info().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Info().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
