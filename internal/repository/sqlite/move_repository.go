package sqlite

import (
	"context"
	"database/sql"

	apperrors "github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

type moveRepository struct {
	db *sql.DB
}

// NewMoveRepository creates a new MoveRepository implementation
func NewMoveRepository(db *sql.DB) repository.MoveRepository {
	return &moveRepository{db: db}
}

func (r *moveRepository) Append(ctx context.Context, mv models.Move) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("move_repo")
	log.Debug("appending move %s at ply %d to game %s", mv.UCI(), mv.Ply, mv.GameID)

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM moves WHERE game_id = ?`, mv.GameID).Scan(&count); err != nil {
			return err
		}
		if mv.Ply != count+1 {
			return apperrors.NewOutOfOrderError(mv.GameID, mv.Ply)
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO moves (game_id, ply, from_square, to_square, promotion, player_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, mv.GameID, mv.Ply, mv.FromSquare, mv.ToSquare, mv.Promotion, nullableID(mv.PlayerID), mv.CreatedAt)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		log.Error("failed to append move: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *moveRepository) ListForGame(ctx context.Context, gameID string) ([]models.Move, error) {
	log := logger.FromContext(ctx).WithPrefix("move_repo")
	log.Debug("listing moves for game %s", gameID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, game_id, ply, from_square, to_square, promotion, player_id, created_at
FROM moves
WHERE game_id = ?
ORDER BY ply ASC
`, gameID)
	if err != nil {
		log.Error("failed to list moves: %v", err)
		return nil, err
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		var mv models.Move
		var player sql.NullInt64
		if err := rows.Scan(&mv.ID, &mv.GameID, &mv.Ply, &mv.FromSquare, &mv.ToSquare,
			&mv.Promotion, &player, &mv.CreatedAt); err != nil {
			log.Error("failed to scan move row: %v", err)
			return nil, err
		}
		if player.Valid {
			mv.PlayerID = &player.Int64
		}
		moves = append(moves, mv)
	}
	log.Debug("found %d moves", len(moves))
	return moves, rows.Err()
}

func (r *moveRepository) CountForGame(ctx context.Context, gameID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("move_repo")

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM moves WHERE game_id = ?`, gameID).Scan(&count)
	if err != nil {
		log.Error("failed to count moves: %v", err)
		return 0, err
	}
	return count, nil
}
