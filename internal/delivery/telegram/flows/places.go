package flows

import (
	"context"
	"strconv"
	"strings"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/internal/delivery/telegram/router"
)

func RegisterPlaces(b Registrar, r *router.CallbackRouter, d *Deps) {
	b.Handle("/addplace", d.authed(d.handleAddPlace))
	b.Handle("/places", d.authed(d.handlePlaces))
	b.Handle(&keyboards.BtnPlaces, d.authed(d.handlePlaces))

	r.Register(keyboards.DeletePlaceKey, d.authedCallback(d.handleDeletePlace))
}

func (d *Deps) handleAddPlace(c telebot.Context, userID int64) error {
	name := payload(c)
	if name == "" {
		return c.Send("Использование: /addplace название")
	}
	ok, err := mutate(middleware.Context(c), d, func(ctx context.Context) (bool, error) {
		return d.Places.AddPlace(ctx, userID, name)
	})
	if err != nil {
		return err
	}
	if !ok {
		return c.Send("Такое место уже есть.")
	}
	return c.Send("Место «" + name + "» добавлено.")
}

func (d *Deps) handlePlaces(c telebot.Context, userID int64) error {
	names, err := d.Places.GetPlaces(middleware.Context(c), userID)
	if err != nil {
		return err
	}
	return middleware.EditOrSend(c, placesText(names), keyboards.PlaceList(names))
}

func (d *Deps) handleDeletePlace(c telebot.Context, userID int64, payload string) error {
	ctx := middleware.Context(c)
	idx, err := strconv.Atoi(payload)
	if err != nil {
		return nil
	}
	names, err := d.Places.GetPlaces(ctx, userID)
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(names) {
		name := names[idx]
		if _, err := mutate(ctx, d, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.Places.DeletePlace(ctx, userID, name)
		}); err != nil {
			return err
		}
		names = append(names[:idx:idx], names[idx+1:]...)
	}
	return middleware.EditOrSend(c, placesText(names), keyboards.PlaceList(names))
}

func placesText(names []string) string {
	if len(names) == 0 {
		return "Мест пока нет. Добавьте: /addplace название"
	}
	return "Места работы:\n• " + strings.Join(names, "\n• ")
}
