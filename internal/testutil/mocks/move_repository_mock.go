package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chessarena/server/internal/models"
)

// MockMoveRepository is a mock implementation of repository.MoveRepository
type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) Append(ctx context.Context, move models.Move) (int64, error) {
	args := m.Called(ctx, move)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMoveRepository) ListForGame(ctx context.Context, gameID string) ([]models.Move, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Move), args.Error(1)
}

func (m *MockMoveRepository) CountForGame(ctx context.Context, gameID string) (int, error) {
	args := m.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}
