package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/repository/redisstore"
)

// Needs a reachable Redis, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestSessionRepository_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	repo, rdb, err := redisstore.New(ctx, addr)
	require.NoError(t, err)
	defer rdb.Close()

	token := uuid.NewString()
	want := models.GameSession{CurrentLevel: 4, Score: 300, FailedAttempts: 2}
	require.NoError(t, repo.Save(ctx, token, want, time.Minute))

	got, err := repo.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	ttl, err := rdb.TTL(ctx, "rebux:session:"+token).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, err = repo.Get(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}
