package keyboards

import (
	"strconv"

	"gopkg.in/telebot.v3"
)

const DeletePlaceKey = "place_del"

// PlaceList: кнопки удаления мест. В payload позиция в списке:
// название может не поместиться в 64 байта callback-данных.
func PlaceList(names []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(names))
	for i, name := range names {
		rows = append(rows, markup.Row(markup.Data("🗑 "+name, DeletePlaceKey, strconv.Itoa(i))))
	}
	markup.Inline(rows...)
	return markup
}
