package router

import (
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/telebot.v3"

	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/pkg/logger"
)

// HandlerFunc получает payload: часть callback-данных после '|'.
type HandlerFunc func(c telebot.Context, payload string) error

// CallbackRouter раскладывает инлайн-кнопки по ключу (unique) кнопки.
type CallbackRouter struct {
	handlers map[string]HandlerFunc
	log      *logger.Logger
}

func New(log *logger.Logger) *CallbackRouter {
	if log == nil {
		log = logger.Nop()
	}
	return &CallbackRouter{handlers: make(map[string]HandlerFunc), log: log}
}

func (r *CallbackRouter) Register(key string, h HandlerFunc) {
	r.handlers[key] = h
}

// Attach вешает роутер на OnCallback бота.
func (r *CallbackRouter) Attach(bot *telebot.Bot, m ...telebot.MiddlewareFunc) {
	bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		_, err := r.Dispatch(c)
		return err
	}, m...)
}

// Dispatch вызывает обработчик по ключу. false, если ключ неизвестен.
func (r *CallbackRouter) Dispatch(c telebot.Context) (bool, error) {
	key, payload := ParseData(c.Data())
	r.log.Event(middleware.Context(c), zerolog.DebugLevel).
		Str("key", key).
		Str("payload", payload).
		Msg("callback")
	_ = c.Respond()

	if h, ok := r.handlers[key]; ok {
		return true, h(c, payload)
	}
	return false, nil
}

// ParseData нормализует callback-данные: убирает префикс "\f" и отделяет payload после '|'.
func ParseData(raw string) (key, payload string) {
	raw = strings.TrimPrefix(raw, "\f")
	key, payload, _ = strings.Cut(raw, "|")
	return key, payload
}
