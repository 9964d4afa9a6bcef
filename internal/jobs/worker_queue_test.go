package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/rebux/internal/jobs"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/worker"
)

type recordingGenerator struct {
	got chan int
}

func (g *recordingGenerator) GenerateLevels(_ context.Context, n int) (*models.GenerationReport, error) {
	g.got <- n
	return &models.GenerationReport{Requested: n}, nil
}

func TestWorkerQueue_EnqueueGenerationRunsJob(t *testing.T) {
	gen := &recordingGenerator{got: make(chan int, 1)}
	genPool := worker.NewPool("generation", 1, 4)
	maintPool := worker.NewPool("maintenance", 1, 4)
	genPool.Start(context.Background())
	maintPool.Start(context.Background())
	defer genPool.Stop()
	defer maintPool.Stop()

	purged := make(chan struct{}, 1)
	q := jobs.NewWorkerQueue(genPool, maintPool, gen, func(context.Context) (int64, error) {
		purged <- struct{}{}
		return 3, nil
	})

	require.NoError(t, q.EnqueueGeneration(2, "manual"))
	select {
	case n := <-gen.got:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("generation job did not run")
	}

	require.NoError(t, q.EnqueueSessionPurge())
	select {
	case <-purged:
	case <-time.After(2 * time.Second):
		t.Fatal("purge job did not run")
	}
}

func TestWorkerQueue_RejectsWhenFull(t *testing.T) {
	// pools are never started so jobs stay queued
	genPool := worker.NewPool("generation", 1, 1)
	defer genPool.Stop()
	q := jobs.NewWorkerQueue(genPool, worker.NewPool("maintenance", 1, 1), &recordingGenerator{got: make(chan int, 1)}, nil)

	require.NoError(t, q.EnqueueGeneration(2, "low_levels"))
	assert.ErrorIs(t, q.EnqueueGeneration(2, "low_levels"), worker.ErrQueueFull)
}
