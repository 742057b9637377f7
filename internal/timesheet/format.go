package timesheet

import (
	"fmt"
	"strings"
	"time"
)

// FormatClock formats t as zero-padded 24-hour HH:MM
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatWorked formats d as "8h" or "7h 55min".
// Seconds are rounded to the nearest minute.
func FormatWorked(d time.Duration) string {
	totalMinutes := int(d.Round(time.Minute) / time.Minute)
	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}

	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if minutes == 0 {
		return fmt.Sprintf("%s%dh", sign, hours)
	}
	return fmt.Sprintf("%s%dh %dmin", sign, hours, minutes)
}

// DayNamer names a weekday for display
type DayNamer func(time.Weekday) string

var portugueseDayNames = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

// EnglishDayName uses Go's weekday names
func EnglishDayName(d time.Weekday) string {
	return d.String()
}

// PortugueseDayName returns Brazilian Portuguese weekday names
func PortugueseDayName(d time.Weekday) string {
	return portugueseDayNames[d]
}

// DayNamerFor picks a namer for a locale tag, falling back to English
func DayNamerFor(locale string) DayNamer {
	switch strings.ToLower(locale) {
	case "pt", "pt-br", "pt_br":
		return PortugueseDayName
	default:
		return EnglishDayName
	}
}
