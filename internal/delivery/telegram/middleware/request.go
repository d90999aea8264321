package middleware

import (
	"context"

	"github.com/google/uuid"
	"gopkg.in/telebot.v3"

	"shiftbook/internal/session"
	"shiftbook/pkg/logger"
)

const ctxKey = "ctx"

// Context возвращает контекст обновления, положенный RequestContext.
func Context(c telebot.Context) context.Context {
	if ctx, ok := c.Get(ctxKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// RequestContext даёт каждому обновлению request id и поля логгера
// (chat_id, user_id), а ошибки обработчиков логирует и превращает
// в короткий ответ пользователю.
func RequestContext(base context.Context, log *logger.Logger, sessions *session.Store) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			ctx := log.WithRequestID(base, uuid.NewString())
			if chat := c.Chat(); chat != nil {
				ctx = log.WithChatID(ctx, chat.ID)
				if userID, ok := sessions.UserID(chat.ID); ok {
					ctx = log.WithUserID(ctx, userID)
				}
			}
			c.Set(ctxKey, ctx)

			if err := next(c); err != nil {
				log.Error(ctx, "handler failed", err)
				return c.Send("Что-то пошло не так, попробуйте позже.")
			}
			return nil
		}
	}
}
