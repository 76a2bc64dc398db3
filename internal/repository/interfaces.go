package repository

import (
	"context"

	"github.com/rpggio/shutterboard/internal/domain/activity"
	"github.com/rpggio/shutterboard/internal/domain/chat"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	activity.Repository
}

// MessageRepository manages chat transcript persistence
type MessageRepository interface {
	chat.Repository
}

// APIKey is a stored credential. The raw token is never persisted.
type APIKey struct {
	ID        string
	Name      string
	TokenHash string
}

// APIKeyRepository manages API keys used for bearer authentication
type APIKeyRepository interface {
	Add(ctx context.Context, name, token string) (*APIKey, error)
	// Resolve returns the key name for a raw bearer token.
	Resolve(ctx context.Context, token string) (string, error)
}
