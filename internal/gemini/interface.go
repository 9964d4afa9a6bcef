package gemini

import (
	"context"

	"github.com/vytor/rebux/internal/models"
)

// ClientInterface is the LLM surface used by the content generator.
type ClientInterface interface {
	GenerateConcepts(ctx context.Context, prompt string) ([]models.PuzzleConcept, error)
}

var _ ClientInterface = (*Client)(nil)
