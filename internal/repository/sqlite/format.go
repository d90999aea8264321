package sqlite

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Даты хранятся строками фиксированного формата, поэтому строковое
// сравнение в SQL совпадает с хронологическим.
const dateTimeLayout = "2006-01-02 15:04:05"

func formatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateTimeLayout)
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, s, loc)
}

// Перерыв хранится как "MM:SS"; минут может быть больше 59.
func formatBreak(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func parseBreak(s string) (time.Duration, error) {
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid break time %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid break minutes %q: %w", s, err)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil {
		return 0, fmt.Errorf("invalid break seconds %q: %w", s, err)
	}
	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
