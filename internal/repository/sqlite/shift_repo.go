package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftbook/internal/domain"
)

type SqliteShiftRepo struct {
	shiftStore
	db *sql.DB
}

func NewSqliteShiftRepo(db *sql.DB, loc *time.Location) *SqliteShiftRepo {
	if loc == nil {
		loc = time.Local
	}
	return &SqliteShiftRepo{
		shiftStore: shiftStore{q: db, loc: loc},
		db:         db,
	}
}

// WithinTx выполняет fn в одной транзакции: проверка пересечений и вставка
// не разрываются другими записями.
func (r *SqliteShiftRepo) WithinTx(ctx context.Context, fn func(store domain.ShiftStore) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(shiftStore{q: tx, loc: r.loc}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *SqliteShiftRepo) InvalidateUserShift(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET is_valid = 0 WHERE id = ? AND user_id = ? AND is_valid = 1`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const shiftColumns = `id, user_id, place, title, start_datetime, end_datetime, break_time, hourly_wage, amount, is_valid`

func (r *SqliteShiftRepo) GetShifts(ctx context.Context, userID int64) ([]domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts
		WHERE user_id = ? AND is_valid = 1
		ORDER BY start_datetime`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return r.scanShifts(rows)
}

// GetShiftsBetween: действующие смены, начинающиеся в [from, to).
func (r *SqliteShiftRepo) GetShiftsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts
		WHERE user_id = ? AND is_valid = 1
		AND start_datetime >= ? AND start_datetime < ?
		ORDER BY start_datetime`,
		userID,
		formatDateTime(from, r.loc),
		formatDateTime(to, r.loc),
	)
	if err != nil {
		return nil, err
	}
	return r.scanShifts(rows)
}

// SumAmount суммирует смены, закончившиеся в [from, to] включительно.
func (r *SqliteShiftRepo) SumAmount(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM shifts
		WHERE user_id = ?
		AND end_datetime >= ? AND end_datetime <= ?
		AND is_valid = 1`,
		userID,
		formatDateTime(from, r.loc),
		formatDateTime(to, r.loc),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func (r *SqliteShiftRepo) NextShiftStart(ctx context.Context, userID int64, from time.Time) (time.Time, bool, error) {
	var start string
	err := r.db.QueryRowContext(ctx,
		`SELECT start_datetime FROM shifts
		WHERE user_id = ? AND start_datetime >= ? AND is_valid = 1
		ORDER BY start_datetime
		LIMIT 1`,
		userID,
		formatDateTime(from, r.loc),
	).Scan(&start)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := parseDateTime(start, r.loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (r *SqliteShiftRepo) scanShifts(rows *sql.Rows) ([]domain.Shift, error) {
	defer rows.Close()

	var shifts []domain.Shift
	for rows.Next() {
		var (
			s                    domain.Shift
			startStr, endStr, br string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Place, &s.Title, &startStr, &endStr, &br, &s.HourlyWage, &s.Amount, &s.Valid); err != nil {
			return nil, err
		}
		var err error
		if s.Start, err = parseDateTime(startStr, r.loc); err != nil {
			return nil, err
		}
		if s.End, err = parseDateTime(endStr, r.loc); err != nil {
			return nil, err
		}
		if s.Break, err = parseBreak(br); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// shiftStore работает поверх *sql.DB или *sql.Tx.
type shiftStore struct {
	q   queryer
	loc *time.Location
}

// FindOverlapping ищет действующие смены пользователя, пересекающиеся с [start, end).
// Касание границ (конец одной = начало другой) пересечением не считается.
func (s shiftStore) FindOverlapping(ctx context.Context, userID int64, start, end time.Time) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id FROM shifts
		WHERE user_id = ?
		AND start_datetime < ? AND end_datetime > ?
		AND is_valid = 1
		ORDER BY start_datetime`,
		userID,
		formatDateTime(end, s.loc),
		formatDateTime(start, s.loc),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s shiftStore) InvalidateShift(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `UPDATE shifts SET is_valid = 0 WHERE id = ?`, id)
	return err
}

func (s shiftStore) InsertShift(ctx context.Context, shift domain.Shift) (int64, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO shifts (user_id, place, title, start_datetime, end_datetime, break_time, hourly_wage, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.UserID,
		shift.Place,
		shift.Title,
		formatDateTime(shift.Start, s.loc),
		formatDateTime(shift.End, s.loc),
		formatBreak(shift.Break),
		shift.HourlyWage,
		shift.Amount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
