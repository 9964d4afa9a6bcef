// Package redisstore keeps game sessions in Redis so several server processes
// can share player progress.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository"
)

const keyPrefix = "rebux:session:"

type sessionRepository struct {
	rdb goredis.UniversalClient
}

// New connects to addr and verifies the connection with a PING.
func New(ctx context.Context, addr string) (repository.SessionRepository, *goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewSessionRepository(rdb), rdb, nil
}

// NewSessionRepository wraps an existing client.
func NewSessionRepository(rdb goredis.UniversalClient) repository.SessionRepository {
	return &sessionRepository{rdb: rdb}
}

func key(token string) string {
	return keyPrefix + token
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_sessions")

	raw, err := r.rdb.Get(ctx, key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		log.Debug("session not found or expired")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s models.GameSession
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Warn("discarding unreadable session payload: %v", err)
		return nil, nil
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, token string, s models.GameSession, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, key(token), raw, ttl).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("redis_sessions").Error("failed to save session: %v", err)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires keys itself.
func (r *sessionRepository) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
