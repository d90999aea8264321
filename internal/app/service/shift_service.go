package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shiftbook/internal/domain"
	"shiftbook/pkg/logger"
	"shiftbook/pkg/metrics"
)

// ShiftServiceImpl: журнал смен: добавление с проверкой пересечений,
// удаление, выборки и суммы.
type ShiftServiceImpl struct {
	Repo    domain.ShiftRepo
	Metrics metrics.LedgerRecorder
	Log     *logger.Logger
}

func NewShiftService(repo domain.ShiftRepo, rec metrics.LedgerRecorder, log *logger.Logger) *ShiftServiceImpl {
	return &ShiftServiceImpl{Repo: repo, Metrics: rec, Log: log}
}

// AddShift записывает смену. При пересечении с действующими сменами
// без allowOverwrite возвращает false и ничего не меняет; с allowOverwrite
// все пересекающиеся смены аннулируются. Проверка и вставка идут в одной транзакции.
func (s *ShiftServiceImpl) AddShift(ctx context.Context, in domain.NewShift, allowOverwrite bool) (bool, error) {
	if err := ValidateShift(in); err != nil {
		if isValidationError(err) {
			s.recorder().ShiftRejected("invalid")
			s.logger().Event(ctx, zerolog.DebugLevel).Err(err).Msg("shift rejected")
			return false, nil
		}
		return false, err
	}

	shift := domain.Shift{
		UserID:     in.UserID,
		Place:      in.Place,
		Title:      in.Title,
		Start:      in.Start,
		End:        in.End,
		Break:      in.Break,
		HourlyWage: in.HourlyWage,
		Amount:     ComputeAmount(in.Start, in.End, in.Break, in.HourlyWage),
		Valid:      true,
	}

	var (
		inserted    bool
		overwritten int
	)
	err := s.Repo.WithinTx(ctx, func(store domain.ShiftStore) error {
		ids, err := store.FindOverlapping(ctx, shift.UserID, shift.Start, shift.End)
		if err != nil {
			return fmt.Errorf("find overlapping: %w", err)
		}
		if len(ids) > 0 && !allowOverwrite {
			return nil
		}
		for _, id := range ids {
			if err := store.InvalidateShift(ctx, id); err != nil {
				return fmt.Errorf("invalidate shift %d: %w", id, err)
			}
		}
		if _, err := store.InsertShift(ctx, shift); err != nil {
			return fmt.Errorf("insert shift: %w", err)
		}
		inserted = true
		overwritten = len(ids)
		return nil
	})
	if err != nil {
		return false, err
	}

	if !inserted {
		s.recorder().ShiftRejected("overlap")
		s.logger().Debug(ctx, "shift overlaps existing ones")
		return false, nil
	}
	s.recorder().ShiftsOverwritten(overwritten)
	s.recorder().ShiftAdded()
	return true, nil
}

// AddWeeklyShifts повторяет смену каждую неделю, пока дата начала не позже
// даты until. Каждая неделя пишется отдельно с перезаписью; первая неудача
// останавливает цикл, уже записанные недели остаются.
func (s *ShiftServiceImpl) AddWeeklyShifts(ctx context.Context, in domain.NewShift, until time.Time) (int, error) {
	last := truncateDay(until)
	written := 0
	for cur := in; !truncateDay(cur.Start).After(last); cur = cur.NextWeek() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		ok, err := s.AddShift(ctx, cur, true)
		if err != nil {
			return written, err
		}
		if !ok {
			break
		}
		written++
	}
	return written, nil
}

// DeleteShift аннулирует смену владельца. Повторный вызов и чужой id ничего не меняют.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, userID, shiftID int64) error {
	deleted, err := s.Repo.InvalidateUserShift(ctx, userID, shiftID)
	if err != nil {
		return fmt.Errorf("delete shift %d: %w", shiftID, err)
	}
	if deleted {
		s.recorder().ShiftDeleted()
	}
	return nil
}

func (s *ShiftServiceImpl) GetShifts(ctx context.Context, userID int64) ([]domain.Shift, error) {
	shifts, err := s.Repo.GetShifts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get shifts: %w", err)
	}
	return shifts, nil
}

// ShiftsOn: смены, начинающиеся в календарный день day.
func (s *ShiftServiceImpl) ShiftsOn(ctx context.Context, userID int64, day time.Time) ([]domain.Shift, error) {
	from := truncateDay(day)
	shifts, err := s.Repo.GetShiftsBetween(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("get shifts on %s: %w", from.Format(time.DateOnly), err)
	}
	return shifts, nil
}

// SumAmount: сумма по сменам, закончившимся в [from, to].
func (s *ShiftServiceImpl) SumAmount(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	if to.Before(from) {
		return 0, nil
	}
	total, err := s.Repo.SumAmount(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("sum amount: %w", err)
	}
	return total, nil
}

func (s *ShiftServiceImpl) NextShift(ctx context.Context, userID int64, from time.Time) (time.Time, bool, error) {
	start, ok, err := s.Repo.NextShiftStart(ctx, userID, from)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("next shift: %w", err)
	}
	return start, ok, nil
}

func (s *ShiftServiceImpl) recorder() metrics.LedgerRecorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

func (s *ShiftServiceImpl) logger() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}

// ValidateShift проверяет входные данные смены, не обращаясь к хранилищу.
func ValidateShift(in domain.NewShift) error {
	if err := Validate(in); err != nil {
		return err
	}
	if in.Break > in.End.Sub(in.Start) {
		return domain.NewValidationError("Break", "exceeds shift length")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
