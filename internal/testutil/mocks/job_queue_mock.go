package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTaskQueue is a mock implementation of jobs.TaskQueue
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueGeneration(numLevels int, reason string) error {
	args := m.Called(numLevels, reason)
	return args.Error(0)
}

func (m *MockTaskQueue) EnqueueSessionPurge() error {
	args := m.Called()
	return args.Error(0)
}
