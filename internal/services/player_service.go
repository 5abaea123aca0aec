package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

// PlayerService manages player registration and rating records.
type PlayerService interface {
	CreatePlayer(ctx context.Context, username string) (*models.Player, error)
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
}

type playerService struct {
	players repository.PlayerRepository
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(players repository.PlayerRepository) PlayerService {
	return &playerService{players: players}
}

func (s *playerService) CreatePlayer(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewValidationError("username", "must not be empty")
	}
	if len(username) > 64 {
		return nil, errors.NewValidationError("username", "must be at most 64 characters")
	}

	existing, err := s.players.GetByUsername(ctx, username)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewValidationError("username", "already taken")
	}

	player, err := s.players.Insert(ctx, username)
	if err != nil {
		log.Error("failed to insert player %q: %v", username, err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("player %d (%s) registered", player.ID, player.Username)
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	player, err := s.players.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("player", id)
		}
		return nil, errors.NewInternalError(err)
	}
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return players, nil
}
