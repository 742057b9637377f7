package calendar

import (
	"context"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

// StaticCalendar serves holidays listed inline (config file or command line)
type StaticCalendar struct {
	holidays []Holiday
}

// NewStaticCalendar parses dates; malformed entries are logged and ignored
func NewStaticCalendar(dates []string, logger *zap.Logger) *StaticCalendar {
	sc := &StaticCalendar{}
	for _, s := range dates {
		date, err := dateutil.ParseDate(s)
		if err != nil {
			logger.Warn("Ignoring malformed holiday", zap.String("date", s), zap.Error(err))
			continue
		}
		sc.holidays = append(sc.holidays, newHoliday(date, ""))
	}
	return sc
}

// Name implements Source
func (sc *StaticCalendar) Name() string {
	return "static"
}

// Holidays implements Source
func (sc *StaticCalendar) Holidays(_ context.Context, year int, month time.Month) ([]Holiday, error) {
	var out []Holiday
	for _, h := range sc.holidays {
		if inMonth(h.Date, year, month) {
			out = append(out, h)
		}
	}
	return out, nil
}
