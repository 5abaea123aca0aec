package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// Per-color column names. Colors index fixed columns instead of being
// spliced into identifiers at call sites.

func seatColumn(c models.Color) string {
	if c == models.White {
		return "white_player_id"
	}
	return "black_player_id"
}

func claimColumn(c models.Color) string {
	if c == models.White {
		return "white_can_claim_draw"
	}
	return "black_can_claim_draw"
}

func camColumn(c models.Color) string {
	if c == models.White {
		return "white_cam_room"
	}
	return "black_cam_room"
}

func boardColumn(c models.Color) string {
	if c == models.White {
		return "white_board_room"
	}
	return "black_board_room"
}
