package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

// MockGameRepository is a mock implementation of repository.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Get(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) List(ctx context.Context, filter repository.GameFilter) ([]models.Game, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) Insert(ctx context.Context, game models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) SetSeat(ctx context.Context, id string, color models.Color, playerID int64) error {
	args := m.Called(ctx, id, color, playerID)
	return args.Error(0)
}

func (m *MockGameRepository) SetRooms(ctx context.Context, id string, color models.Color, camRoom, boardRoom string) error {
	args := m.Called(ctx, id, color, camRoom, boardRoom)
	return args.Error(0)
}

func (m *MockGameRepository) SetClaimDraw(ctx context.Context, id string, color models.Color, value bool) error {
	args := m.Called(ctx, id, color, value)
	return args.Error(0)
}

func (m *MockGameRepository) SetStarted(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockGameRepository) Finish(ctx context.Context, id string, result models.Result, finishedAt time.Time) error {
	args := m.Called(ctx, id, result, finishedAt)
	return args.Error(0)
}
