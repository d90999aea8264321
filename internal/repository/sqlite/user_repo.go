package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"shiftbook/internal/domain"
)

type SqliteUserRepo struct {
	db *sql.DB
}

func NewSqliteUserRepo(db *sql.DB) *SqliteUserRepo {
	return &SqliteUserRepo{db: db}
}

func (r *SqliteUserRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, closing_day, goal_amount) VALUES (?, ?, ?, ?)`,
		u.Username, u.Password, u.ClosingDay, u.GoalAmount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetUserByID возвращает domain.ErrNotFound для отсутствующих и удалённых пользователей.
func (r *SqliteUserRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, closing_day, goal_amount, is_valid FROM users
		WHERE id = ? AND is_valid = 1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Password, &u.ClosingDay, &u.GoalAmount, &u.Valid)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}

func (r *SqliteUserRepo) FindUserIDByCredentials(ctx context.Context, username, password string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM users
		WHERE username = ? AND password = ? AND is_valid = 1
		LIMIT 1`,
		username, password,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return id, err
}

// UsernameTaken проверяет занятость имени среди действующих пользователей,
// не считая excludeID (0 значит никого не исключать).
func (r *SqliteUserRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM users WHERE username = ? AND id != ? AND is_valid = 1
		)`,
		username, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *SqliteUserRepo) UpdateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password = ?, closing_day = ?, goal_amount = ?
		WHERE id = ? AND is_valid = 1`,
		u.Username, u.Password, u.ClosingDay, u.GoalAmount, u.ID,
	)
	return err
}

func (r *SqliteUserRepo) InvalidateUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_valid = 0 WHERE id = ?`, id)
	return err
}
