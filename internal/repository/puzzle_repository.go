package repository

import (
	"context"

	"github.com/vytor/rebux/internal/models"
)

// PuzzleRepository handles puzzle level data access.
type PuzzleRepository interface {
	// GetByLevel returns (nil, nil) when no level has that number.
	GetByLevel(ctx context.Context, levelNumber int) (*models.PuzzleLevel, error)
	Count(ctx context.Context) (int, error)
	// RecentAnswers returns up to limit lowercased answers ordered by level number descending.
	RecentAnswers(ctx context.Context, limit int) ([]string, error)
	// InsertNext stores the level as max(level_number)+1 and returns the assigned number.
	InsertNext(ctx context.Context, level models.NewPuzzleLevel) (int, error)
	List(ctx context.Context, filter models.PuzzleFilter) ([]models.PuzzleSummary, error)
}
