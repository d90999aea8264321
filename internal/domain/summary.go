package domain

import "time"

// Summary: сводка для главного экрана.
type Summary struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	Current         int64   // заработано с начала периода по сейчас
	Estimated       int64   // ожидается за весь период
	Goal            int64
	AchievementRate float64 // 0..100

	YearTotal   int64
	AnnualLimit int64
	Remaining   int64

	NextShift    time.Time
	HasNextShift bool
}
