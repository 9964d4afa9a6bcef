package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/rebux/internal/models"
)

// MockPuzzleRepository is a mock implementation of repository.PuzzleRepository
type MockPuzzleRepository struct {
	mock.Mock
}

func (m *MockPuzzleRepository) GetByLevel(ctx context.Context, levelNumber int) (*models.PuzzleLevel, error) {
	args := m.Called(ctx, levelNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PuzzleLevel), args.Error(1)
}

func (m *MockPuzzleRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPuzzleRepository) RecentAnswers(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPuzzleRepository) InsertNext(ctx context.Context, level models.NewPuzzleLevel) (int, error) {
	args := m.Called(ctx, level)
	return args.Int(0), args.Error(1)
}

func (m *MockPuzzleRepository) List(ctx context.Context, filter models.PuzzleFilter) ([]models.PuzzleSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PuzzleSummary), args.Error(1)
}
