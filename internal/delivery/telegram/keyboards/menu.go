package keyboards

import "gopkg.in/telebot.v3"

var (
	BtnHome     = telebot.Btn{Text: "🏠 Главная"}
	BtnShifts   = telebot.Btn{Text: "📅 Смены"}
	BtnPlaces   = telebot.Btn{Text: "📍 Места"}
	BtnSettings = telebot.Btn{Text: "⚙️ Настройки"}
)

// MainMenu: постоянная клавиатура под полем ввода.
func MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(BtnHome, BtnShifts),
		markup.Row(BtnPlaces, BtnSettings),
	)
	return markup
}

// RemoveMenu убирает клавиатуру после выхода.
func RemoveMenu() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
