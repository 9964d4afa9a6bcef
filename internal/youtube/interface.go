package youtube

import (
	"context"

	"github.com/vytor/rebux/internal/models"
)

// ClientInterface is the video facade used by the HTTP layer.
type ClientInterface interface {
	Search(ctx context.Context, query string, limit int) ([]models.VideoResult, error)
	Download(ctx context.Context, target string, format string) (*models.DownloadedFile, error)
}

var _ ClientInterface = (*Client)(nil)
