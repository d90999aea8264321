package keyboards

import (
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

const (
	PickMonthKey = "pick_month"
	MonthPrevKey = "month_prev"
	MonthNextKey = "month_next"
)

// BuildMonthKeyboard: выбор месяца для перехода в календарь смен.
func BuildMonthKeyboard(year int) (string, *telebot.ReplyMarkup) {
	markup := &telebot.ReplyMarkup{}

	monthNames := []string{"Янв", "Фев", "Мар", "Апр", "Май", "Июн", "Июл", "Авг", "Сен", "Окт", "Ноя", "Дек"}
	rows := []telebot.Row{}
	for i := 0; i < 12; i += 3 {
		row := telebot.Row{}
		for j := i; j < i+3; j++ {
			row = append(row, markup.Data(monthNames[j], PickMonthKey, fmt.Sprintf("%04d-%02d", year, j+1)))
		}
		rows = append(rows, row)
	}

	prev := markup.Data("← "+strconv.Itoa(year-1), MonthPrevKey, strconv.Itoa(year))
	next := markup.Data(strconv.Itoa(year+1)+" →", MonthNextKey, strconv.Itoa(year))
	rows = append(rows, markup.Row(prev, next))

	markup.Inline(rows...)
	title := fmt.Sprintf("Выберите месяц: %d", year)
	return title, markup
}
