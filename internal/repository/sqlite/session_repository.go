package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository"
)

type sessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// SessionOption configures the sqlite session repository.
type SessionOption func(*sessionRepository)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(r *sessionRepository) { r.now = now }
}

// NewSessionRepository creates a SessionRepository backed by the game_sessions table.
func NewSessionRepository(db *sql.DB, opts ...SessionOption) repository.SessionRepository {
	r := &sessionRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	var s models.GameSession
	err := r.db.QueryRowContext(ctx, `
SELECT current_level, score, failed_attempts
FROM game_sessions
WHERE token = ? AND expires_at > ?
`, token, r.now().Unix()).Scan(&s.CurrentLevel, &s.Score, &s.FailedAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found or expired")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, token string, s models.GameSession, ttl time.Duration) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	now := r.now()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO game_sessions (token, current_level, score, failed_attempts, expires_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(token) DO UPDATE SET
    current_level = excluded.current_level,
    score = excluded.score,
    failed_attempts = excluded.failed_attempts,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at
`, token, s.CurrentLevel, s.Score, s.FailedAttempts, now.Add(ttl).Unix(), now.UTC())
	if err != nil {
		log.Error("failed to save session: %v", err)
		return fmt.Errorf("save session: %w", err)
	}
	log.Debug("session saved: level=%d, score=%d, failed_attempts=%d", s.CurrentLevel, s.Score, s.FailedAttempts)
	return nil
}

func (r *sessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE expires_at <= ?`, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromContext(ctx).WithPrefix("session_repo").Info("purged %d expired sessions", n)
	}
	return n, nil
}
