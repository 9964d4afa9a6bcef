package worker

import (
	"context"

	"github.com/vytor/rebux/internal/logger"
)

// GenerateLevelsJob runs one content generation batch.
type GenerateLevelsJob struct {
	Generator LevelGenerator
	NumLevels int
	// Reason is logged only ("manual", "low_levels").
	Reason string
}

func (j *GenerateLevelsJob) Name() string { return "generate_levels" }

func (j *GenerateLevelsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"num_levels": j.NumLevels,
		"reason":     j.Reason,
	})
	log.Info("starting generation batch")

	report, err := j.Generator.GenerateLevels(logger.NewContext(ctx, log), j.NumLevels)
	if err != nil {
		return err
	}
	log.Info("generation batch saved %d of %d proposed levels", len(report.Saved), report.Proposed)
	return nil
}

// PurgeSessionsJob removes expired sessions.
type PurgeSessionsJob struct {
	Purge func(ctx context.Context) (int64, error)
}

func (j *PurgeSessionsJob) Name() string { return "purge_sessions" }

func (j *PurgeSessionsJob) Run(ctx context.Context) error {
	_, err := j.Purge(ctx)
	return err
}
