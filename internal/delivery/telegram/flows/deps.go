package flows

import (
	"context"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/app/service"
	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/session"
	"shiftbook/pkg/logger"
)

// Registrar: то, что умеет *telebot.Bot для регистрации обработчиков.
type Registrar interface {
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
}

// Deps: общие зависимости сценариев бота.
type Deps struct {
	Users    *service.UserService
	Places   *service.PlaceService
	Shifts   *service.ShiftServiceImpl
	Summary  *service.SummaryService
	Async    *service.AsyncService
	Sessions *session.Store
	Log      *logger.Logger

	Loc               *time.Location
	Now               func() time.Time
	DefaultClosingDay int
	DefaultGoal       int64
}

const loginHint = "Сначала войдите: /login имя пароль\nНет аккаунта? /signup имя пароль"

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().In(d.loc())
	}
	return time.Now().In(d.loc())
}

func (d *Deps) loc() *time.Location {
	if d.Loc == nil {
		return time.Local
	}
	return d.Loc
}

// userID возвращает вошедшего пользователя чата; иначе отвечает подсказкой.
func (d *Deps) userID(c telebot.Context) (int64, bool, error) {
	if id, ok := d.Sessions.UserID(c.Chat().ID); ok {
		return id, true, nil
	}
	return 0, false, c.Send(loginHint)
}

// authed оборачивает команду проверкой входа.
func (d *Deps) authed(h func(c telebot.Context, userID int64) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		id, ok, err := d.userID(c)
		if !ok {
			return err
		}
		return h(c, id)
	}
}

// authedCallback: то же для инлайн-кнопок.
func (d *Deps) authedCallback(h func(c telebot.Context, userID int64, payload string) error) func(telebot.Context, string) error {
	return func(c telebot.Context, payload string) error {
		id, ok, err := d.userID(c)
		if !ok {
			return err
		}
		return h(c, id, payload)
	}
}

// mutate выполняет запись через пул, чтобы изменения шли по одному.
func mutate[T any](ctx context.Context, d *Deps, fn func(ctx context.Context) (T, error)) (T, error) {
	if d.Async == nil {
		return fn(ctx)
	}
	return service.Run(ctx, d.Async, fn)
}

// payload: текст команды после её имени.
func payload(c telebot.Context) string {
	if m := c.Message(); m != nil {
		return strings.TrimSpace(m.Payload)
	}
	return ""
}

func sendMenu(c telebot.Context, text string) error {
	return c.Send(text, keyboards.MainMenu())
}
