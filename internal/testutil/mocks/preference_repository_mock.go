package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPreferenceRepository is a mock implementation of repository.PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	args := m.Called(ctx, visitorID, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPreferenceRepository) Set(ctx context.Context, visitorID, key, value string) error {
	args := m.Called(ctx, visitorID, key, value)
	return args.Error(0)
}

func (m *MockPreferenceRepository) DeleteVisitor(ctx context.Context, visitorID string) error {
	args := m.Called(ctx, visitorID)
	return args.Error(0)
}
