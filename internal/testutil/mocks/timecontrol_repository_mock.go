package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chessarena/server/internal/models"
)

// MockTimeControlRepository is a mock implementation of repository.TimeControlRepository
type MockTimeControlRepository struct {
	mock.Mock
}

func (m *MockTimeControlRepository) Get(ctx context.Context, id int64) (*models.TimeControl, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeControl), args.Error(1)
}

func (m *MockTimeControlRepository) List(ctx context.Context) ([]models.TimeControl, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeControl), args.Error(1)
}
