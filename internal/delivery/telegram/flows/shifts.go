package flows

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/app/service"
	"shiftbook/internal/delivery/telegram/forms"
	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/internal/delivery/telegram/router"
	"shiftbook/internal/domain"
	"shiftbook/pkg/calendar"
)

const (
	overwriteKey       = "shift_overwrite"
	cancelOverwriteKey = "shift_cancel"
)

func RegisterShifts(b Registrar, r *router.CallbackRouter, d *Deps) {
	b.Handle("/addshift", d.authed(d.handleAddShift))
	b.Handle("/shifts", d.authed(d.handleShifts))
	b.Handle(&keyboards.BtnShifts, d.authed(d.handleShifts))

	r.Register(overwriteKey, d.authedCallback(d.handleOverwrite))
	r.Register(cancelOverwriteKey, func(c telebot.Context, _ string) error {
		d.Sessions.TakePending(c.Chat().ID)
		return middleware.EditOrSend(c, "Смена не добавлена.", nil)
	})

	r.Register(calendar.DayKey, d.authedCallback(d.handleDay))
	r.Register(calendar.PrevKey, d.authedCallback(d.handleMonth))
	r.Register(calendar.NextKey, d.authedCallback(d.handleMonth))
	r.Register(keyboards.OpenMonthKey, d.authedCallback(d.handleMonth))
	r.Register(keyboards.DeleteShiftKey, d.authedCallback(d.handleDeleteShift))

	r.Register(keyboards.ChooseMonthKey, func(c telebot.Context, payload string) error {
		return d.showMonthPicker(c, payload, 0)
	})
	r.Register(keyboards.MonthPrevKey, func(c telebot.Context, payload string) error {
		return d.showMonthPicker(c, payload, -1)
	})
	r.Register(keyboards.MonthNextKey, func(c telebot.Context, payload string) error {
		return d.showMonthPicker(c, payload, 1)
	})
	r.Register(keyboards.PickMonthKey, d.authedCallback(d.handlePickMonth))
}

func (d *Deps) handleAddShift(c telebot.Context, userID int64) error {
	ctx := middleware.Context(c)
	text := payload(c)
	if text == "" {
		return c.Send("Формат:\n" + forms.ShiftUsage)
	}
	form, err := forms.ParseShift(text, d.loc())
	if err != nil {
		return c.Send("Не получилось: " + err.Error() + "\n\nФормат:\n" + forms.ShiftUsage)
	}

	places, err := d.Places.GetPlaces(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(places, form.Place) {
		return c.Send("Места «" + form.Place + "» нет. Добавьте его: /addplace " + form.Place)
	}

	in := domain.NewShift{
		UserID:     userID,
		Place:      form.Place,
		Title:      form.Title,
		Start:      form.Start,
		End:        form.End,
		Break:      form.Break,
		HourlyWage: form.HourlyWage,
	}
	if err := service.ValidateShift(in); err != nil {
		return c.Send("Смена не добавлена: конец должен быть позже начала, перерыв не длиннее смены.")
	}

	if form.Repeat {
		n, err := mutate(ctx, d, func(ctx context.Context) (int, error) {
			return d.Shifts.AddWeeklyShifts(ctx, in, form.RepeatUntil)
		})
		d.Sessions.InvalidateUser(in.UserID)
		if err != nil {
			return err
		}
		return c.Send(fmt.Sprintf("Добавлено смен: %d (еженедельно до %s).", n, form.RepeatUntil.Format("02.01.2006")))
	}

	ok, err := mutate(ctx, d, func(ctx context.Context) (bool, error) {
		return d.Shifts.AddShift(ctx, in, false)
	})
	if err != nil {
		return err
	}
	if !ok {
		d.Sessions.SetPending(c.Chat().ID, in)
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Перезаписать", overwriteKey),
			markup.Data("Отмена", cancelOverwriteKey),
		))
		return c.Send("Смена пересекается с уже записанной. Перезаписать?", markup)
	}
	d.Sessions.InvalidateUser(in.UserID)
	return c.Send(shiftAddedText(in))
}

func (d *Deps) handleOverwrite(c telebot.Context, userID int64, _ string) error {
	in, ok := d.Sessions.TakePending(c.Chat().ID)
	if !ok || in.UserID != userID {
		return middleware.EditOrSend(c, "Нечего перезаписывать.", nil)
	}
	ok, err := mutate(middleware.Context(c), d, func(ctx context.Context) (bool, error) {
		return d.Shifts.AddShift(ctx, in, true)
	})
	if err != nil {
		return err
	}
	if !ok {
		return middleware.EditOrSend(c, "Смена не добавлена.", nil)
	}
	d.Sessions.InvalidateUser(userID)
	return middleware.EditOrSend(c, shiftAddedText(in), nil)
}

func (d *Deps) handleShifts(c telebot.Context, userID int64) error {
	now := d.now()
	return d.showCalendar(c, now.Year(), now.Month())
}

func (d *Deps) handleMonth(c telebot.Context, _ int64, payload string) error {
	year, month, err := calendar.ParseMonth(payload)
	if err != nil {
		return nil
	}
	return d.showCalendar(c, year, month)
}

func (d *Deps) handlePickMonth(c telebot.Context, _ int64, payload string) error {
	t, err := time.ParseInLocation("2006-01", payload, d.loc())
	if err != nil {
		return nil
	}
	return d.showCalendar(c, t.Year(), t.Month())
}

func (d *Deps) showMonthPicker(c telebot.Context, payload string, delta int) error {
	year, err := strconv.Atoi(payload)
	if err != nil {
		year = d.now().Year()
	}
	title, markup := keyboards.BuildMonthKeyboard(year + delta)
	return middleware.EditOrSend(c, title, markup)
}

func (d *Deps) showCalendar(c telebot.Context, year int, month time.Month) error {
	shifts, err := d.Sessions.Shifts(middleware.Context(c), c.Chat().ID, d.Shifts.GetShifts)
	if err != nil {
		return err
	}
	title, markup := keyboards.ShiftCalendar(year, month, shifts)
	return middleware.EditOrSend(c, title, markup)
}

func (d *Deps) handleDay(c telebot.Context, userID int64, payload string) error {
	day, err := calendar.ParseDay(payload, d.loc())
	if err != nil {
		return nil
	}
	shifts, err := d.Shifts.ShiftsOn(middleware.Context(c), userID, day)
	if err != nil {
		return err
	}
	return middleware.EditOrSend(c, dayText(day, shifts), keyboards.DayShifts(day, shifts))
}

func (d *Deps) handleDeleteShift(c telebot.Context, userID int64, payload string) error {
	ctx := middleware.Context(c)
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return nil
	}

	// день нужен, чтобы вернуться к нему после удаления
	shifts, err := d.Sessions.Shifts(ctx, c.Chat().ID, d.Shifts.GetShifts)
	if err != nil {
		return err
	}
	day := d.now()
	for _, s := range shifts {
		if s.ID == id {
			day = s.Start
			break
		}
	}

	if _, err := mutate(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.Shifts.DeleteShift(ctx, userID, id)
	}); err != nil {
		return err
	}
	d.Sessions.InvalidateUser(userID)

	left, err := d.Shifts.ShiftsOn(ctx, userID, day)
	if err != nil {
		return err
	}
	return middleware.EditOrSend(c, "Смена удалена.\n\n"+dayText(day, left), keyboards.DayShifts(day, left))
}

func dayText(day time.Time, shifts []domain.Shift) string {
	if len(shifts) == 0 {
		return "Смен на " + day.Format("02.01.2006") + " нет."
	}
	var b strings.Builder
	b.WriteString("Смены на " + day.Format("02.01.2006") + ":\n")
	for _, s := range shifts {
		fmt.Fprintf(&b, "\n%s · %s\n%s–%s, перерыв %s, ставка %s/ч\nИтого: %s\n",
			s.Place, s.Title,
			s.Start.Format("15:04"), s.End.Format("02.01 15:04"),
			forms.FormatClock(s.Break), forms.FormatAmount(s.HourlyWage),
			forms.FormatAmount(s.Amount),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func shiftAddedText(in domain.NewShift) string {
	amount := service.ComputeAmount(in.Start, in.End, in.Break, in.HourlyWage)
	return fmt.Sprintf("Смена добавлена: %s · %s, %s–%s, %s.",
		in.Place, in.Title,
		in.Start.Format("02.01 15:04"), in.End.Format("02.01 15:04"),
		forms.FormatAmount(amount),
	)
}
