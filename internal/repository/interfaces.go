package repository

import (
	"context"
	"time"

	"github.com/chessarena/server/internal/models"
)

// GameFilter narrows game listings.
type GameFilter struct {
	PlayerID *int64
	Finished *bool
	Limit    int
	Offset   int
}

// GameRepository handles game data access. Implementations must provide
// the isolation needed for the per-game serialization guarantee: a
// finish is all-or-nothing and is rejected once the result is terminal.
type GameRepository interface {
	Get(ctx context.Context, id string) (*models.Game, error)
	List(ctx context.Context, filter GameFilter) ([]models.Game, error)
	Insert(ctx context.Context, game models.Game) error
	SetSeat(ctx context.Context, id string, color models.Color, playerID int64) error
	SetRooms(ctx context.Context, id string, color models.Color, camRoom, boardRoom string) error
	SetClaimDraw(ctx context.Context, id string, color models.Color, value bool) error
	// SetStarted records the first accepted move: started_at plus the
	// transition of the result to in-progress, in one statement.
	SetStarted(ctx context.Context, id string, startedAt time.Time) error
	// Finish writes the terminal result and finished_at atomically. It
	// fails if the stored result is already terminal.
	Finish(ctx context.Context, id string, result models.Result, finishedAt time.Time) error
}

// MoveRepository is the append-only move ledger. No update or delete is
// exposed; the append order is the game history.
type MoveRepository interface {
	// Append adds the move at the end of the ledger. The move's ply
	// must be exactly one past the current length, otherwise the append
	// is out of order.
	Append(ctx context.Context, move models.Move) (int64, error)
	ListForGame(ctx context.Context, gameID string) ([]models.Move, error)
	CountForGame(ctx context.Context, gameID string) (int, error)
}

// PlayerRepository handles player and rating-record access.
type PlayerRepository interface {
	Get(ctx context.Context, id int64) (*models.Player, error)
	GetByUsername(ctx context.Context, username string) (*models.Player, error)
	Insert(ctx context.Context, username string) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	// UpdateRatings persists both players' rating records in a single
	// transaction so a finished game never half-applies.
	UpdateRatings(ctx context.Context, first, second models.Player) error
}

// TimeControlRepository serves read-only time-control reference data.
type TimeControlRepository interface {
	Get(ctx context.Context, id int64) (*models.TimeControl, error)
	List(ctx context.Context) ([]models.TimeControl, error)
}
