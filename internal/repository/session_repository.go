package repository

import (
	"context"
	"time"

	"github.com/vytor/rebux/internal/models"
)

// SessionRepository stores game sessions keyed by the client-held token.
type SessionRepository interface {
	// Get returns (nil, nil) for unknown or expired tokens.
	Get(ctx context.Context, token string) (*models.GameSession, error)
	Save(ctx context.Context, token string, session models.GameSession, ttl time.Duration) error
	// PurgeExpired removes expired sessions and reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
