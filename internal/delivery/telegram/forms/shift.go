// Package forms разбирает текстовые формы команд бота.
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// ShiftUsage: подсказка к /addshift.
const ShiftUsage = "/addshift место; название; 2024-03-01 09:00; 2024-03-01 17:00; 00:30; 1000\n" +
	"Последнее необязательное поле — повторять еженедельно до даты: ; 2024-04-30"

var ErrFieldCount = errors.New("ожидается 6 или 7 полей через ';'")

// ShiftForm: разобранная форма /addshift.
type ShiftForm struct {
	Place       string
	Title       string
	Start       time.Time
	End         time.Time
	Break       time.Duration
	HourlyWage  int64
	RepeatUntil time.Time
	Repeat      bool
}

// ParseShift разбирает "место; название; начало; конец; перерыв; ставка[; повторять до]".
// Время трактуется в loc.
func ParseShift(text string, loc *time.Location) (ShiftForm, error) {
	if loc == nil {
		loc = time.Local
	}
	fields := strings.Split(text, ";")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) != 6 && len(fields) != 7 {
		return ShiftForm{}, ErrFieldCount
	}

	var (
		f   ShiftForm
		err error
	)
	f.Place, f.Title = fields[0], fields[1]
	if f.Place == "" || f.Title == "" {
		return ShiftForm{}, errors.New("место и название не могут быть пустыми")
	}
	if f.Start, err = time.ParseInLocation(DateTimeLayout, fields[2], loc); err != nil {
		return ShiftForm{}, fmt.Errorf("начало %q: ожидается ГГГГ-ММ-ДД ЧЧ:ММ", fields[2])
	}
	if f.End, err = time.ParseInLocation(DateTimeLayout, fields[3], loc); err != nil {
		return ShiftForm{}, fmt.Errorf("конец %q: ожидается ГГГГ-ММ-ДД ЧЧ:ММ", fields[3])
	}
	if f.Break, err = ParseClock(fields[4]); err != nil {
		return ShiftForm{}, fmt.Errorf("перерыв %q: ожидается ЧЧ:ММ", fields[4])
	}
	if f.HourlyWage, err = strconv.ParseInt(fields[5], 10, 64); err != nil || f.HourlyWage < 0 {
		return ShiftForm{}, fmt.Errorf("ставка %q: ожидается целое неотрицательное число", fields[5])
	}
	if len(fields) == 7 && fields[6] != "" {
		if f.RepeatUntil, err = time.ParseInLocation(DateLayout, fields[6], loc); err != nil {
			return ShiftForm{}, fmt.Errorf("повторять до %q: ожидается ГГГГ-ММ-ДД", fields[6])
		}
		f.Repeat = true
	}
	return f, nil
}

// ParseClock разбирает длительность "ЧЧ:ММ".
func ParseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
