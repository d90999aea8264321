package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shiftbook/internal/domain"
	"shiftbook/pkg/payperiod"
)

// SummaryService считает цифры главного экрана.
type SummaryService struct {
	Users       domain.UserRepo
	Shifts      *ShiftServiceImpl
	AnnualLimit int64
}

func NewSummaryService(users domain.UserRepo, shifts *ShiftServiceImpl, annualLimit int64) *SummaryService {
	return &SummaryService{Users: users, Shifts: shifts, AnnualLimit: annualLimit}
}

// Summary возвращает domain.ErrNotFound, если пользователя нет.
func (s *SummaryService) Summary(ctx context.Context, userID int64, now time.Time) (domain.Summary, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Summary{}, err
		}
		return domain.Summary{}, fmt.Errorf("get user %d: %w", userID, err)
	}

	start, end := payperiod.For(now, u.ClosingDay)
	sum := domain.Summary{
		PeriodStart: start,
		PeriodEnd:   end,
		Goal:        u.GoalAmount,
		AnnualLimit: s.AnnualLimit,
	}

	if sum.Current, err = s.Shifts.SumAmount(ctx, userID, start, now); err != nil {
		return domain.Summary{}, err
	}
	if sum.Estimated, err = s.Shifts.SumAmount(ctx, userID, start, end); err != nil {
		return domain.Summary{}, err
	}
	if sum.YearTotal, err = s.Shifts.SumAmount(ctx, userID, payperiod.YearStart(now), now); err != nil {
		return domain.Summary{}, err
	}
	if sum.NextShift, sum.HasNextShift, err = s.Shifts.NextShift(ctx, userID, now); err != nil {
		return domain.Summary{}, err
	}

	sum.AchievementRate = AchievementRate(sum.Current, sum.Goal)
	sum.Remaining = sum.AnnualLimit - sum.YearTotal
	return sum, nil
}

// AchievementRate: процент выполнения цели с точностью до десятых, не больше 100.
// При нулевой цели 0.
func AchievementRate(current, goal int64) float64 {
	if goal <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(current).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(goal)).
		Round(1)
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return rate.InexactFloat64()
}
