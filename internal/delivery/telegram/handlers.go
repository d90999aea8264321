package telegram

import (
	"context"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/delivery/telegram/flows"
	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/internal/delivery/telegram/router"
)

// Handler собирает сценарии бота и вешает их на *telebot.Bot.
type Handler struct {
	Bot    *telebot.Bot
	Router *router.CallbackRouter
	Deps   *flows.Deps
}

func NewHandler(bot *telebot.Bot, deps *flows.Deps) *Handler {
	return &Handler{Bot: bot, Router: router.New(deps.Log), Deps: deps}
}

// Register регистрирует команды, кнопки меню и единый обработчик инлайн-кнопок.
// ctx: базовый контекст обработки обновлений.
func (h *Handler) Register(ctx context.Context) {
	h.Bot.Use(middleware.RequestContext(ctx, h.Deps.Log, h.Deps.Sessions))

	flows.RegisterAccount(h.Bot, h.Router, h.Deps)
	flows.RegisterHome(h.Bot, h.Deps)
	flows.RegisterPlaces(h.Bot, h.Router, h.Deps)
	flows.RegisterShifts(h.Bot, h.Router, h.Deps)

	h.Router.Attach(h.Bot)

	h.Bot.Handle(telebot.OnText, func(c telebot.Context) error {
		return c.Send("Не понял. /start — список команд.")
	})
}
