package calendar

import (
	"context"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
)

// Holiday is a non-working calendar day
type Holiday struct {
	Date time.Time // midnight UTC of the day
	Note string
}

// Source provides the holidays of a month
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Holidays returns holidays falling in the given month
	Holidays(ctx context.Context, year int, month time.Month) ([]Holiday, error)
}

// newHoliday normalizes date to its calendar day
func newHoliday(date time.Time, note string) Holiday {
	return Holiday{
		Date: dateutil.StartOfDay(date, time.UTC),
		Note: note,
	}
}

func inMonth(date time.Time, year int, month time.Month) bool {
	return date.Year() == year && date.Month() == month
}

func monthKey(year int, month time.Month) string {
	return dateutil.StartOfMonth(year, month, time.UTC).Format("2006-01")
}
