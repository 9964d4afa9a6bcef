package worker

import (
	"context"

	"github.com/vytor/rebux/internal/models"
)

// LevelGenerator is the content generator as seen by the pool.
// Declared here so worker does not import services.
type LevelGenerator interface {
	GenerateLevels(ctx context.Context, numLevels int) (*models.GenerationReport, error)
}
