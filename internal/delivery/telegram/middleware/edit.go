package middleware

import (
	"gopkg.in/telebot.v3"
)

// EditOrSend редактирует сообщение с кнопкой, а если редактировать нечего
// (команда, а не callback) или Telegram отказал, отправляет новое.
func EditOrSend(c telebot.Context, text string, markup *telebot.ReplyMarkup) error {
	opts := []interface{}{}
	if markup != nil {
		opts = append(opts, markup)
	}
	if c.Callback() != nil {
		if err := c.Edit(text, opts...); err == nil {
			return nil
		}
	}
	return c.Send(text, opts...)
}
