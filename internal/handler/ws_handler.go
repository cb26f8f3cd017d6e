/*
Package handler provides the HTTP handlers and routing setup for the Chatterbox server.

This file contains the HandleWebSocket function, responsible for rate limiting,
resolving the access token, upgrading the connection, and starting the client
lifecycle: history replay, registration, then the message loop.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chatterbox/internal/app/chat"
	"chatterbox/internal/pkg/errs"
	"chatterbox/internal/pkg/limiter"
	"chatterbox/internal/pkg/logx"
	"chatterbox/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// An invalid or missing token refuses the connection before the upgrade, so an
// unauthenticated peer never touches the membership set or the history store.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := r.URL.Query().Get("token")
		if token == "" {
			logx.Warn("WebSocket request rejected: Missing token")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		identity, ok := deps.Sessions.Resolve(token)
		if !ok {
			logx.Warn("WebSocket request rejected: Unknown token")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := chat.NewSession(identity)
		client := chat.NewClient(conn, session, deps.Broadcaster)

		go client.WritePump()

		if err := deps.Broadcaster.Join(r.Context(), session); err != nil {
			logx.Error(err, "Failed to admit session", "identity", identity)
			deps.Broadcaster.Leave(session)
			conn.Close()
			return
		}

		logx.Info("WebSocket connection established", "identity", identity, "session_id", session.ID.String())

		client.ReadPump()
	}
}
