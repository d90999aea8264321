// Package payperiod вычисляет расчётный период по дню закрытия месяца.
package payperiod

import "time"

// For возвращает границы периода, в который попадает today.
// Период начинается на следующий день после даты закрытия предыдущего месяца
// и заканчивается в 23:59:59 даты закрытия. Если в месяце нет дня closingDay
// (31 февраля), берётся последний существующий день.
func For(today time.Time, closingDay int) (start, end time.Time) {
	loc := today.Location()
	year, month := today.Year(), today.Month()

	thisLimit := LimitDate(year, month, closingDay, loc)

	if today.After(thisLimit) {
		ny, nm := nextMonth(year, month)
		start = thisLimit.AddDate(0, 0, 1)
		end = endOfDay(LimitDate(ny, nm, closingDay, loc))
		return start, end
	}

	py, pm := prevMonth(year, month)
	start = LimitDate(py, pm, closingDay, loc).AddDate(0, 0, 1)
	end = endOfDay(thisLimit)
	return start, end
}

// LimitDate: полночь последнего существующего дня месяца, не превышающего closingDay.
func LimitDate(year int, month time.Month, closingDay int, loc *time.Location) time.Time {
	day := clampDay(closingDay)
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// YearStart: 1 января 00:00 года, в котором находится t.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func daysIn(year int, month time.Month) int {
	y, m := nextMonth(year, month)
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func clampDay(d int) int {
	if d < 1 {
		return 1
	}
	if d > 31 {
		return 31
	}
	return d
}
