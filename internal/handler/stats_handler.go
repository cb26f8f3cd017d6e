package handler

import (
	"net/http"

	"chatterbox/internal/pkg/errs"
	"chatterbox/internal/pkg/logx"
	"chatterbox/internal/pkg/resp"
)

// HandleStats reports server statistics: persisted totals plus the live
// connection and session counts.
func HandleStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalUsers, err := deps.Users.Count(r.Context())
		if err != nil {
			logx.Error(err, "stats: failed to count users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		totalMessages, err := deps.Messages.Count(r.Context())
		if err != nil {
			logx.Error(err, "stats: failed to count messages")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"total_users":        totalUsers,
			"total_messages":     totalMessages,
			"active_connections": deps.Registry.Len(),
			"active_sessions":    deps.Sessions.Active(),
		})
	}
}
