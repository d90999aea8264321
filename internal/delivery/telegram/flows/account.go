package flows

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/delivery/telegram/forms"
	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/internal/delivery/telegram/router"
	"shiftbook/internal/domain"
)

const (
	withdrawYesKey = "withdraw_yes"
	withdrawNoKey  = "withdraw_no"
)

const helpText = `Учёт смен и заработка.

/signup имя пароль [день_закрытия цель] — регистрация
/login имя пароль — вход
/logout — выход
/home — сводка за период
/addplace название — добавить место работы
/places — места работы
/addshift — добавить смену
/shifts — календарь смен
/settings [имя пароль день_закрытия цель] — настройки
/withdraw — удалить аккаунт`

// RegisterAccount: регистрация, вход, настройки и удаление аккаунта.
func RegisterAccount(b Registrar, r *router.CallbackRouter, d *Deps) {
	b.Handle("/start", d.handleStart)
	b.Handle("/signup", d.handleSignUp)
	b.Handle("/login", d.handleLogin)
	b.Handle("/logout", d.handleLogout)
	b.Handle("/settings", d.authed(d.handleSettings))
	b.Handle(&keyboards.BtnSettings, d.authed(d.handleSettings))
	b.Handle("/withdraw", d.authed(d.handleWithdraw))

	r.Register(withdrawYesKey, d.authedCallback(d.handleWithdrawConfirm))
	r.Register(withdrawNoKey, func(c telebot.Context, _ string) error {
		return middleware.EditOrSend(c, "Удаление отменено.", nil)
	})
}

func (d *Deps) handleStart(c telebot.Context) error {
	if _, ok := d.Sessions.UserID(c.Chat().ID); ok {
		return sendMenu(c, helpText)
	}
	return c.Send(helpText)
}

func (d *Deps) handleSignUp(c telebot.Context) error {
	ctx := middleware.Context(c)
	acc, err := forms.ParseAccount(strings.Fields(payload(c)), d.DefaultClosingDay, d.DefaultGoal)
	if err != nil {
		return c.Send("Не получилось: " + err.Error())
	}

	ok, err := mutate(ctx, d, func(ctx context.Context) (bool, error) {
		return d.Users.SignUp(ctx, acc.Username, acc.Password, acc.ClosingDay, acc.GoalAmount)
	})
	if err != nil {
		return err
	}
	if !ok {
		return c.Send("Имя уже занято или данные неверны.")
	}
	return c.Send("Аккаунт создан. Теперь войдите: /login " + acc.Username + " пароль")
}

func (d *Deps) handleLogin(c telebot.Context) error {
	ctx := middleware.Context(c)
	args := strings.Fields(payload(c))
	if len(args) != 2 {
		return c.Send("Использование: /login имя пароль")
	}

	id, ok, err := d.Users.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !ok {
		return c.Send("Неверное имя или пароль.")
	}
	d.Sessions.Login(c.Chat().ID, id)
	d.Log.Info(d.Log.WithUserID(ctx, id), "logged in")
	return sendMenu(c, "Добро пожаловать, "+args[0]+"!")
}

func (d *Deps) handleLogout(c telebot.Context) error {
	d.Sessions.Logout(c.Chat().ID)
	return c.Send("Вы вышли.", keyboards.RemoveMenu())
}

func (d *Deps) handleSettings(c telebot.Context, userID int64) error {
	ctx := middleware.Context(c)
	args := strings.Fields(payload(c))
	if len(args) == 0 {
		u, ok, err := d.Users.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			d.Sessions.Logout(c.Chat().ID)
			return c.Send(loginHint)
		}
		return c.Send(fmt.Sprintf(
			"Имя: %s\nДень закрытия периода: %d\nЦель на период: %s\n\nИзменить: /settings имя пароль день_закрытия цель",
			u.Username, u.ClosingDay, forms.FormatAmount(u.GoalAmount),
		))
	}

	acc, err := forms.ParseAccount(args, 0, 0)
	if err != nil || len(args) != 4 {
		return c.Send("Использование: /settings имя пароль день_закрытия цель")
	}
	ok, err := mutate(ctx, d, func(ctx context.Context) (bool, error) {
		return d.Users.UpdateSettings(ctx, domain.User{
			ID:         userID,
			Username:   acc.Username,
			Password:   acc.Password,
			ClosingDay: acc.ClosingDay,
			GoalAmount: acc.GoalAmount,
		})
	})
	if err != nil {
		return err
	}
	if !ok {
		return c.Send("Не сохранено: имя занято или данные неверны.")
	}
	return c.Send("Настройки сохранены.")
}

func (d *Deps) handleWithdraw(c telebot.Context, _ int64) error {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Да, удалить", withdrawYesKey),
		markup.Data("Отмена", withdrawNoKey),
	))
	return c.Send("Удалить аккаунт? Войти в него больше не получится.", markup)
}

func (d *Deps) handleWithdrawConfirm(c telebot.Context, userID int64, _ string) error {
	ctx := middleware.Context(c)
	if _, err := mutate(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.Users.Withdraw(ctx, userID)
	}); err != nil {
		return err
	}
	d.Sessions.Logout(c.Chat().ID)
	d.Log.Info(ctx, "account withdrawn")
	if err := middleware.EditOrSend(c, "Аккаунт удалён.", nil); err != nil {
		return err
	}
	return c.Send("До встречи!", keyboards.RemoveMenu())
}
