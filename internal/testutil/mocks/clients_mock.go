package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/rebux/internal/models"
)

// MockLLMClient is a mock implementation of gemini.ClientInterface
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) GenerateConcepts(ctx context.Context, prompt string) ([]models.PuzzleConcept, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PuzzleConcept), args.Error(1)
}

// MockImageClient is a mock implementation of unsplash.ClientInterface
type MockImageClient struct {
	mock.Mock
}

func (m *MockImageClient) SearchImage(ctx context.Context, term string) (string, error) {
	args := m.Called(ctx, term)
	return args.String(0), args.Error(1)
}

// MockVideoClient is a mock implementation of youtube.ClientInterface
type MockVideoClient struct {
	mock.Mock
}

func (m *MockVideoClient) Search(ctx context.Context, query string, limit int) ([]models.VideoResult, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoResult), args.Error(1)
}

func (m *MockVideoClient) Download(ctx context.Context, target string, format string) (*models.DownloadedFile, error) {
	args := m.Called(ctx, target, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DownloadedFile), args.Error(1)
}
