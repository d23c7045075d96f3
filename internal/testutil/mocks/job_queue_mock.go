package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueAttempt(attempt models.Attempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}
