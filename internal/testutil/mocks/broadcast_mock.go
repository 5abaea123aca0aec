package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chessarena/server/internal/models"
)

// MockPublisher is a mock implementation of broadcast.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, gameID string, snapshot models.Snapshot) error {
	args := m.Called(ctx, gameID, snapshot)
	return args.Error(0)
}

// MockRoomProvisioner is a mock implementation of broadcast.RoomProvisioner
type MockRoomProvisioner struct {
	mock.Mock
}

func (m *MockRoomProvisioner) CreateSession(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoomProvisioner) CreateRoomsForUser(ctx context.Context, sessionID, attachID int64, displayName string) (string, string, error) {
	args := m.Called(ctx, sessionID, attachID, displayName)
	return args.String(0), args.String(1), args.Error(2)
}
