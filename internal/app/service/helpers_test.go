package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shiftbook/internal/domain"
	"shiftbook/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db))
	return db
}

func mustCreateUser(t *testing.T, db *sql.DB, username string, closingDay int, goal int64) int64 {
	t.Helper()
	id, err := sqlite.NewSqliteUserRepo(db).CreateUser(context.Background(), domain.User{
		Username:   username,
		Password:   "secret",
		ClosingDay: closingDay,
		GoalAmount: goal,
	})
	require.NoError(t, err)
	return id
}

func ts(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

type countingRecorder struct {
	added       int
	rejected    map[string]int
	overwritten int
	deleted     int
	logins      map[bool]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{rejected: map[string]int{}, logins: map[bool]int{}}
}

func (r *countingRecorder) ShiftAdded()                 { r.added++ }
func (r *countingRecorder) ShiftRejected(reason string) { r.rejected[reason]++ }
func (r *countingRecorder) ShiftsOverwritten(n int)     { r.overwritten += n }
func (r *countingRecorder) ShiftDeleted()               { r.deleted++ }
func (r *countingRecorder) Login(success bool)          { r.logins[success]++ }

// fakeShiftRepo подменяет отдельные операции; остальные паникуют.
type fakeShiftRepo struct {
	domain.ShiftRepo

	FindOverlappingFn func(ctx context.Context, userID int64, start, end time.Time) ([]int64, error)
	InsertShiftFn     func(ctx context.Context, shift domain.Shift) (int64, error)
	InvalidateFn      func(ctx context.Context, id int64) error
	SumAmountFn       func(ctx context.Context, userID int64, from, to time.Time) (int64, error)
}

func (f *fakeShiftRepo) WithinTx(ctx context.Context, fn func(store domain.ShiftStore) error) error {
	return fn(f)
}

func (f *fakeShiftRepo) FindOverlapping(ctx context.Context, userID int64, start, end time.Time) ([]int64, error) {
	if f.FindOverlappingFn == nil {
		return nil, nil
	}
	return f.FindOverlappingFn(ctx, userID, start, end)
}

func (f *fakeShiftRepo) InsertShift(ctx context.Context, shift domain.Shift) (int64, error) {
	return f.InsertShiftFn(ctx, shift)
}

func (f *fakeShiftRepo) InvalidateShift(ctx context.Context, id int64) error {
	if f.InvalidateFn == nil {
		return nil
	}
	return f.InvalidateFn(ctx, id)
}

func (f *fakeShiftRepo) SumAmount(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	return f.SumAmountFn(ctx, userID, from, to)
}
