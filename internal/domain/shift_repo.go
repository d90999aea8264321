package domain

import (
	"context"
	"time"
)

// Shift: запись о смене. Place хранит название места на момент создания,
// а не ссылку на places: переименование места не меняет прошлые смены.
type Shift struct {
	ID         int64
	UserID     int64
	Place      string
	Title      string
	Start      time.Time
	End        time.Time
	Break      time.Duration
	HourlyWage int64
	Amount     int64
	Valid      bool
}

// NewShift: входные данные для добавления смены.
type NewShift struct {
	UserID     int64         `validate:"gt=0"`
	Place      string        `validate:"required"`
	Title      string        `validate:"required"`
	Start      time.Time     `validate:"required"`
	End        time.Time     `validate:"required,gtfield=Start"`
	Break      time.Duration `validate:"gte=0"`
	HourlyWage int64         `validate:"gte=0"`
}

// NextWeek возвращает ту же смену через 7 календарных дней.
func (n NewShift) NextWeek() NewShift {
	n.Start = n.Start.AddDate(0, 0, 7)
	n.End = n.End.AddDate(0, 0, 7)
	return n
}

// ShiftStore: операции, которые выполняются внутри одной транзакции
// при проверке пересечений и вставке.
type ShiftStore interface {
	FindOverlapping(ctx context.Context, userID int64, start, end time.Time) ([]int64, error)
	InvalidateShift(ctx context.Context, id int64) error
	InsertShift(ctx context.Context, shift Shift) (int64, error)
}

type ShiftRepo interface {
	ShiftStore
	WithinTx(ctx context.Context, fn func(store ShiftStore) error) error
	// InvalidateUserShift сообщает, была ли действующая смена аннулирована.
	InvalidateUserShift(ctx context.Context, userID, id int64) (bool, error)
	GetShifts(ctx context.Context, userID int64) ([]Shift, error)
	GetShiftsBetween(ctx context.Context, userID int64, from, to time.Time) ([]Shift, error)
	SumAmount(ctx context.Context, userID int64, from, to time.Time) (int64, error)
	NextShiftStart(ctx context.Context, userID int64, from time.Time) (time.Time, bool, error)
}
