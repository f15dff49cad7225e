package utils

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"event-storefront/internal/models"

	"github.com/lithammer/shortuuid/v3"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout     = "January 02, 2006"
	DateTimeLayout = "January 02, 2006 - 03:04 PM"
	TimeLayout     = "03:04 PM"
)

// FormatCurrency renders a USD amount as "$1,234.50".
func FormatCurrency(a models.Amount) string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + p.Sprintf("%v%.2f", currency.NarrowSymbol(currency.USD), a.Float())
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// FormatDate renders t as "May 01, 2030"; the zero time renders as "".
func FormatDate(t time.Time) string {
	return formatTime(t, DateLayout)
}

// FormatDateTime renders t as "May 01, 2030 - 07:30 PM".
func FormatDateTime(t time.Time) string {
	return formatTime(t, DateTimeLayout)
}

// FormatTime renders t as "07:30 PM".
func FormatTime(t time.Time) string {
	return formatTime(t, TimeLayout)
}

// TruncateText cuts s to max runes and appends "...".
func TruncateText(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// GenerateTicketID returns a display id like "TKT1717171717171AB3XK9Q".
func GenerateTicketID() string {
	suffix := strings.ToUpper(shortuuid.New())
	if len(suffix) > 7 {
		suffix = suffix[:7]
	}
	return "TKT" + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
