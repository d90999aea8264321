package forms

import (
	"strconv"
	"strings"
	"time"
)

// FormatAmount печатает сумму с разделителями тысяч: ¥1,030,000.
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "¥" + b.String()
}

// FormatClock печатает длительность как "ЧЧ:ММ".
func FormatClock(d time.Duration) string {
	m := int64(d / time.Minute)
	return pad2(m/60) + ":" + pad2(m%60)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
