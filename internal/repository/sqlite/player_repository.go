package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

const playerColumns = `id, username, rating, previous_rating, wins, losses, draws, created_at, updated_at`

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

func scanPlayer(row interface{ Scan(...any) error }) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.Username, &p.Rating, &p.PreviousRating,
		&p.Wins, &p.Losses, &p.Draws, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: id=%d", id)

	p, err := scanPlayer(r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("player not found: id=%d", id)
		} else {
			log.Error("failed to get player: %v", err)
		}
		return nil, err
	}
	return p, nil
}

func (r *playerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: username=%s", username)

	p, err := scanPlayer(r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE username = ?`, username))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get player by username: %v", err)
		}
		return nil, err
	}
	return p, nil
}

func (r *playerRepository) Insert(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("creating player: username=%s", username)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO players (username, rating, previous_rating)
VALUES (?, ?, ?)
`, username, models.DefaultRating, models.DefaultRating)
	if err != nil {
		log.Error("failed to insert player: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *playerRepository) List(ctx context.Context) ([]models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY rating DESC`)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("failed to scan player row: %v", err)
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *playerRepository) UpdateRatings(ctx context.Context, first, second models.Player) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("updating ratings: player %d -> %d, player %d -> %d",
		first.ID, first.Rating, second.ID, second.Rating)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, p := range []models.Player{first, second} {
			_, err := tx.ExecContext(ctx, `
UPDATE players
SET rating = ?, previous_rating = ?, wins = ?, losses = ?, draws = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, p.Rating, p.PreviousRating, p.Wins, p.Losses, p.Draws, p.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
