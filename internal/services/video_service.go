package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/vytor/rebux/internal/errors"
	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
	"github.com/vytor/rebux/internal/youtube"
)

// BestFormat is the format selector used for title downloads.
const BestFormat = "best"

// VideoService is the YouTube search and download facade.
type VideoService interface {
	Search(ctx context.Context, query string) ([]models.VideoResult, error)
	DownloadURL(ctx context.Context, rawURL string) (*models.DownloadedFile, error)
	DownloadByTitle(ctx context.Context, title string) (*models.DownloadedFile, error)
}

type videoService struct {
	client youtube.ClientInterface
}

// NewVideoService creates a new VideoService
func NewVideoService(client youtube.ClientInterface) VideoService {
	return &videoService{client: client}
}

func (s *videoService) Search(ctx context.Context, query string) ([]models.VideoResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewBadRequestError("query is required")
	}
	videos, err := s.client.Search(ctx, query, youtube.SearchLimit)
	if err != nil {
		logger.FromContext(ctx).Error("video search failed: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return videos, nil
}

// DownloadURL accepts only absolute http(s) URLs.
func (s *videoService) DownloadURL(ctx context.Context, rawURL string) (*models.DownloadedFile, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.NewBadRequestError("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewBadRequestError("url must be an absolute http or https URL")
	}
	return s.download(ctx, u.String(), "")
}

func (s *videoService) DownloadByTitle(ctx context.Context, title string) (*models.DownloadedFile, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewBadRequestError("title is required")
	}
	return s.download(ctx, youtube.SearchTarget(title), BestFormat)
}

func (s *videoService) download(ctx context.Context, target, format string) (*models.DownloadedFile, error) {
	file, err := s.client.Download(ctx, target, format)
	if err != nil {
		logger.FromContext(ctx).Error("video download failed: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return file, nil
}
