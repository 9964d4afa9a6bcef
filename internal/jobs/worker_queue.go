package jobs

import (
	"context"

	"github.com/vytor/rebux/internal/worker"
)

// WorkerQueue implements TaskQueue on in-process worker pools.
type WorkerQueue struct {
	generationPool *worker.Pool
	maintenance    *worker.Pool
	generator      worker.LevelGenerator
	purge          func(ctx context.Context) (int64, error)
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	generationPool *worker.Pool,
	maintenancePool *worker.Pool,
	generator worker.LevelGenerator,
	purge func(ctx context.Context) (int64, error),
) TaskQueue {
	return &WorkerQueue{
		generationPool: generationPool,
		maintenance:    maintenancePool,
		generator:      generator,
		purge:          purge,
	}
}

func (q *WorkerQueue) EnqueueGeneration(numLevels int, reason string) error {
	return q.generationPool.Submit(&worker.GenerateLevelsJob{
		Generator: q.generator,
		NumLevels: numLevels,
		Reason:    reason,
	})
}

func (q *WorkerQueue) EnqueueSessionPurge() error {
	return q.maintenance.Submit(&worker.PurgeSessionsJob{Purge: q.purge})
}
