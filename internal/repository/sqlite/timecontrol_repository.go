package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/models"
	"github.com/chessarena/server/internal/repository"
)

type timeControlRepository struct {
	db *sql.DB
}

// NewTimeControlRepository creates a new TimeControlRepository implementation
func NewTimeControlRepository(db *sql.DB) repository.TimeControlRepository {
	return &timeControlRepository{db: db}
}

func scanTimeControl(row interface{ Scan(...any) error }) (*models.TimeControl, error) {
	var tc models.TimeControl
	var base, inc sql.NullInt64
	if err := row.Scan(&tc.ID, &tc.Name, &base, &inc); err != nil {
		return nil, err
	}
	if base.Valid {
		v := int(base.Int64)
		tc.BaseSeconds = &v
	}
	if inc.Valid {
		v := int(inc.Int64)
		tc.IncrementSeconds = &v
	}
	return &tc, nil
}

func (r *timeControlRepository) Get(ctx context.Context, id int64) (*models.TimeControl, error) {
	log := logger.FromContext(ctx).WithPrefix("time_control_repo")

	tc, err := scanTimeControl(r.db.QueryRowContext(ctx,
		`SELECT id, name, base_seconds, increment_seconds FROM time_controls WHERE id = ?`, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get time control: %v", err)
		}
		return nil, err
	}
	return tc, nil
}

func (r *timeControlRepository) List(ctx context.Context) ([]models.TimeControl, error) {
	log := logger.FromContext(ctx).WithPrefix("time_control_repo")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, base_seconds, increment_seconds FROM time_controls ORDER BY id ASC`)
	if err != nil {
		log.Error("failed to list time controls: %v", err)
		return nil, err
	}
	defer rows.Close()

	var controls []models.TimeControl
	for rows.Next() {
		tc, err := scanTimeControl(rows)
		if err != nil {
			log.Error("failed to scan time control row: %v", err)
			return nil, err
		}
		controls = append(controls, *tc)
	}
	return controls, rows.Err()
}
