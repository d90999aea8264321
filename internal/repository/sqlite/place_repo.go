package sqlite

import (
	"context"
	"database/sql"

	"shiftbook/internal/domain"
)

type SqlitePlaceRepo struct {
	db *sql.DB
}

func NewSqlitePlaceRepo(db *sql.DB) *SqlitePlaceRepo {
	return &SqlitePlaceRepo{db: db}
}

func (r *SqlitePlaceRepo) PlaceExists(ctx context.Context, userID int64, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM places WHERE user_id = ? AND name = ? AND is_valid = 1
		)`,
		userID, name,
	).Scan(&exists)
	return exists, err
}

func (r *SqlitePlaceRepo) CreatePlace(ctx context.Context, p domain.Place) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO places (user_id, name) VALUES (?, ?)`,
		p.UserID, p.Name,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SqlitePlaceRepo) GetPlaces(ctx context.Context, userID int64) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, is_valid FROM places
		WHERE user_id = ? AND is_valid = 1
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Valid); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (r *SqlitePlaceRepo) InvalidatePlace(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE places SET is_valid = 0 WHERE user_id = ? AND name = ? AND is_valid = 1`,
		userID, name,
	)
	return err
}
