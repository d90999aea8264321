package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"
)

// Коды callback-кнопок календаря.
const (
	DayKey  = "cal_day"
	PrevKey = "cal_prev"
	NextKey = "cal_next"
)

var ruMonths = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

// MonthName: название месяца по-русски.
func MonthName(m time.Month) string {
	if ru, ok := ruMonths[m]; ok {
		return ru
	}
	return m.String()
}

// Build строит инлайн-календарь за месяц. Дни из marked помечаются точкой.
func Build(year int, month time.Month, marked map[int]bool) (string, *telebot.ReplyMarkup) {
	markup := &telebot.ReplyMarkup{}
	days := daysInMonth(year, month)

	var rows []telebot.Row
	week := telebot.Row{}
	for d := 1; d <= days; d++ {
		text := strconv.Itoa(d)
		if marked[d] {
			text += "•"
		}
		week = append(week, markup.Data(text, DayKey, fmt.Sprintf("%d-%d-%d", d, int(month), year)))
		if len(week) == 7 {
			rows = append(rows, week)
			week = telebot.Row{}
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}

	py, pm := shiftMonth(year, month, -1)
	ny, nm := shiftMonth(year, month, 1)
	prev := markup.Data("<", PrevKey, fmt.Sprintf("%d-%d", int(pm), py))
	next := markup.Data(">", NextKey, fmt.Sprintf("%d-%d", int(nm), ny))
	rows = append(rows, telebot.Row{prev, next})
	markup.Inline(rows...)

	title := "Выберите дату: " + MonthName(month) + " " + strconv.Itoa(year)
	return title, markup
}

// ParseDay разбирает payload кнопки дня "d-m-y".
func ParseDay(payload string, loc *time.Location) (time.Time, error) {
	parts := SplitDateData(payload)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("calendar: bad day payload %q", payload)
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: bad day payload %q: %w", payload, err)
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("calendar: date out of range %q", payload)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// ParseMonth разбирает payload кнопок листания "m-y".
func ParseMonth(payload string) (int, time.Month, error) {
	parts := SplitDateData(payload)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("calendar: bad month payload %q", payload)
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return 0, 0, fmt.Errorf("calendar: bad month payload %q: %w", payload, err)
	}
	month, year := nums[0], nums[1]
	// старые кнопки могли прислать 0 или 13
	if month < 1 {
		month = 12
		year--
	}
	if month > 12 {
		month = 1
		year++
	}
	return year, time.Month(month), nil
}

// SplitDateData разбивает строку даты на части
func SplitDateData(data string) []string {
	return strings.Split(data, "-")
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
