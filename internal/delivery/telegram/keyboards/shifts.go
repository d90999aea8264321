package keyboards

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/domain"
	"shiftbook/pkg/calendar"
)

const (
	DeleteShiftKey = "shift_del"
	OpenMonthKey   = "shift_month"
	ChooseMonthKey = "shift_pick"
)

// ShiftCalendar: календарь месяца с отмеченными днями смен и кнопкой выбора месяца.
func ShiftCalendar(year int, month time.Month, shifts []domain.Shift) (string, *telebot.ReplyMarkup) {
	marked := make(map[int]bool)
	for _, s := range shifts {
		if s.Start.Year() == year && s.Start.Month() == month {
			marked[s.Start.Day()] = true
		}
	}
	title, markup := calendar.Build(year, month, marked)
	markup.InlineKeyboard = append(markup.InlineKeyboard, []telebot.InlineButton{
		*markup.Data("Выбрать месяц", ChooseMonthKey, strconv.Itoa(year)).Inline(),
	})
	return title, markup
}

// DayShifts: смены дня, у каждой кнопка удаления, и возврат к месяцу.
func DayShifts(day time.Time, shifts []domain.Shift) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(shifts)+1)
	for _, s := range shifts {
		label := fmt.Sprintf("🗑 %s %s–%s", s.Title, s.Start.Format("15:04"), s.End.Format("15:04"))
		rows = append(rows, markup.Row(markup.Data(label, DeleteShiftKey, strconv.FormatInt(s.ID, 10))))
	}
	back := markup.Data("← "+calendar.MonthName(day.Month()), OpenMonthKey, fmt.Sprintf("%d-%d", int(day.Month()), day.Year()))
	rows = append(rows, markup.Row(back))
	markup.Inline(rows...)
	return markup
}
