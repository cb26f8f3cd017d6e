package handler

import (
	"context"

	"chatterbox/internal/app/auth"
	"chatterbox/internal/app/chat"
	"chatterbox/internal/app/user"
	"chatterbox/internal/configs"
)

// UserStore is the account storage contract consumed by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Count(ctx context.Context) (int64, error)
}

// MessageCounter exposes the persisted-message count for the stats endpoint.
type MessageCounter interface {
	Count(ctx context.Context) (int64, error)
}

// AppDeps bundles the shared components injected into every handler.
type AppDeps struct {
	Config      *configs.AppConfig
	Registry    *chat.Registry
	Broadcaster *chat.Broadcaster
	Sessions    *auth.SessionStore
	Users       UserStore
	Messages    MessageCounter
}
