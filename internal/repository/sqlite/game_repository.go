package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	apperrors "github.com/chessarena/server/internal/errors"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

const gameColumns = `id, white_player_id, black_player_id, created_at, started_at, finished_at,
       result, termination, white_can_claim_draw, black_can_claim_draw,
       white_cam_room, black_cam_room, white_board_room, black_board_room,
       broadcast_type, time_control_id`

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func scanGame(row interface{ Scan(...any) error }) (*models.Game, error) {
	var g models.Game
	var white, black sql.NullInt64
	var started, finished sql.NullTime
	err := row.Scan(
		&g.ID, &white, &black, &g.CreatedAt, &started, &finished,
		&g.Result.Result, &g.Result.Termination,
		&g.CanClaimDraw[models.White], &g.CanClaimDraw[models.Black],
		&g.CamRooms[models.White], &g.CamRooms[models.Black],
		&g.BoardRooms[models.White], &g.BoardRooms[models.Black],
		&g.BroadcastType, &g.TimeControlID,
	)
	if err != nil {
		return nil, err
	}
	if white.Valid {
		g.WhitePlayerID = &white.Int64
	}
	if black.Valid {
		g.BlackPlayerID = &black.Int64
	}
	if started.Valid {
		t := started.Time
		g.StartedAt = &t
	}
	if finished.Valid {
		t := finished.Time
		g.FinishedAt = &t
	}
	return &g, nil
}

func (r *gameRepository) Get(ctx context.Context, id string) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting game: id=%s", id)

	g, err := scanGame(r.db.QueryRowContext(ctx, `
SELECT `+gameColumns+`
FROM games
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("game not found: id=%s", id)
		} else {
			log.Error("failed to get game: %v", err)
		}
		return nil, err
	}
	return g, nil
}

func (r *gameRepository) List(ctx context.Context, filter repository.GameFilter) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("listing games")

	query := sqlBuilder.Select(gameColumns).From("games")

	if filter.PlayerID != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"white_player_id": *filter.PlayerID},
			squirrel.Eq{"black_player_id": *filter.PlayerID},
		})
	}
	if filter.Finished != nil {
		terminal := squirrel.Eq{"result": []string{models.WhiteWins, models.BlackWins, models.Draw}}
		if *filter.Finished {
			query = query.Where(terminal)
		} else {
			query = query.Where(squirrel.Sqlizer(squirrel.NotEq{"result": []string{models.WhiteWins, models.BlackWins, models.Draw}}))
		}
	}

	query = query.OrderBy("created_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("failed to scan game row: %v", err)
			return nil, err
		}
		games = append(games, *g)
	}
	log.Debug("found %d games", len(games))
	return games, rows.Err()
}

func (r *gameRepository) Insert(ctx context.Context, g models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("inserting game: id=%s, broadcast_type=%s", g.ID, g.BroadcastType)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO games (
    id, white_player_id, black_player_id, result, termination,
    white_can_claim_draw, black_can_claim_draw, broadcast_type, time_control_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, g.ID, nullableID(g.WhitePlayerID), nullableID(g.BlackPlayerID),
		g.Result.Result, g.Result.Termination,
		g.CanClaimDraw[models.White], g.CanClaimDraw[models.Black],
		g.BroadcastType, g.TimeControlID)
	if err != nil {
		log.Error("failed to insert game: %v", err)
	}
	return err
}

func (r *gameRepository) SetSeat(ctx context.Context, id string, color models.Color, playerID int64) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("seating player %d as %s in game %s", playerID, color, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE games SET `+seatColumn(color)+` = ? WHERE id = ? AND `+seatColumn(color)+` IS NULL`,
		playerID, id)
	if err != nil {
		log.Error("failed to set seat: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewGameFullError(id)
	}
	return nil
}

func (r *gameRepository) SetRooms(ctx context.Context, id string, color models.Color, camRoom, boardRoom string) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("setting broadcast rooms for %s in game %s", color, id)

	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET `+camColumn(color)+` = ?, `+boardColumn(color)+` = ? WHERE id = ?`,
		camRoom, boardRoom, id)
	if err != nil {
		log.Error("failed to set rooms: %v", err)
	}
	return err
}

func (r *gameRepository) SetClaimDraw(ctx context.Context, id string, color models.Color, value bool) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("setting %s draw-claim flag to %t in game %s", color, value, id)

	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET `+claimColumn(color)+` = ? WHERE id = ?`, value, id)
	if err != nil {
		log.Error("failed to set draw-claim flag: %v", err)
	}
	return err
}

func (r *gameRepository) SetStarted(ctx context.Context, id string, startedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("starting game %s", id)

	// started_at is set exactly once; the guard makes a second call a no-op.
	_, err := r.db.ExecContext(ctx, `
UPDATE games
SET started_at = ?, result = ?, termination = ?
WHERE id = ? AND started_at IS NULL
`, startedAt, models.InProgress, models.Unterminated, id)
	if err != nil {
		log.Error("failed to start game: %v", err)
	}
	return err
}

func (r *gameRepository) Finish(ctx context.Context, id string, result models.Result, finishedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("finishing game %s: %s / %s", id, result.Result, result.Termination)

	// The guard keeps a terminal result immutable: finishing twice fails.
	res, err := r.db.ExecContext(ctx, `
UPDATE games
SET result = ?, termination = ?, finished_at = ?
WHERE id = ? AND result NOT IN (?, ?, ?)
`, result.Result, result.Termination, finishedAt, id,
		models.WhiteWins, models.BlackWins, models.Draw)
	if err != nil {
		log.Error("failed to finish game: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewGameFinishedError(id)
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
