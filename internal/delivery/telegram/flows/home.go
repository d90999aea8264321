package flows

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/telebot.v3"

	"shiftbook/internal/delivery/telegram/forms"
	"shiftbook/internal/delivery/telegram/keyboards"
	"shiftbook/internal/delivery/telegram/middleware"
	"shiftbook/internal/domain"
)

func RegisterHome(b Registrar, d *Deps) {
	b.Handle("/home", d.authed(d.handleHome))
	b.Handle(&keyboards.BtnHome, d.authed(d.handleHome))
}

func (d *Deps) handleHome(c telebot.Context, userID int64) error {
	sum, err := d.Summary.Summary(middleware.Context(c), userID, d.now())
	if errors.Is(err, domain.ErrNotFound) {
		d.Sessions.Logout(c.Chat().ID)
		return c.Send(loginHint)
	}
	if err != nil {
		return err
	}
	return sendMenu(c, FormatSummary(sum))
}

// FormatSummary: текст главного экрана.
func FormatSummary(s domain.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Период: %s – %s\n", s.PeriodStart.Format("02.01.2006"), s.PeriodEnd.Format("02.01.2006"))
	fmt.Fprintf(&b, "Заработано: %s из %s (%.1f%%)\n", forms.FormatAmount(s.Current), forms.FormatAmount(s.Goal), s.AchievementRate)
	fmt.Fprintf(&b, "Ожидается за период: %s\n", forms.FormatAmount(s.Estimated))
	fmt.Fprintf(&b, "С начала года: %s, лимит %s, осталось %s\n",
		forms.FormatAmount(s.YearTotal), forms.FormatAmount(s.AnnualLimit), forms.FormatAmount(s.Remaining))
	if s.HasNextShift {
		fmt.Fprintf(&b, "Следующая смена: %s", s.NextShift.Format("02.01.2006 15:04"))
	} else {
		b.WriteString("Следующих смен нет")
	}
	return b.String()
}
