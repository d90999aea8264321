package service

import (
	"time"

	"github.com/shopspring/decimal"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// ComputeAmount: оплата за смену: (end − start − break) в часах × ставка,
// округлённая до целого (половина от нуля). Отрицательное время даёт 0.
func ComputeAmount(start, end time.Time, brk time.Duration, hourlyWage int64) int64 {
	worked := end.Sub(start) - brk
	if worked <= 0 || hourlyWage <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(worked)).
		Mul(decimal.NewFromInt(hourlyWage)).
		Div(nanosPerHour).
		Round(0).
		IntPart()
}
