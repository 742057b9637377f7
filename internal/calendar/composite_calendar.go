package calendar

import (
	"context"
	"time"

	"github.com/username/timesheet-gen/internal/timesheet"
	"go.uber.org/zap"
)

// CompositeCalendar merges the holidays of several sources.
// A failing source is logged and skipped; the others still contribute.
type CompositeCalendar struct {
	sources []Source
	logger  *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(logger *zap.Logger, sources ...Source) *CompositeCalendar {
	return &CompositeCalendar{
		sources: sources,
		logger:  logger,
	}
}

// Name implements Source
func (cc *CompositeCalendar) Name() string {
	return "composite"
}

// Len returns the number of sources
func (cc *CompositeCalendar) Len() int {
	return len(cc.sources)
}

// Holidays implements Source; the result may contain the same day from several sources
func (cc *CompositeCalendar) Holidays(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	var all []Holiday

	for _, src := range cc.sources {
		holidays, err := src.Holidays(ctx, year, month)
		if err != nil {
			cc.logger.Warn("Holiday source failed, continuing without it",
				zap.String("source", src.Name()),
				zap.Int("year", year),
				zap.Int("month", int(month)),
				zap.Error(err))
			continue
		}

		cc.logger.Debug("Holidays loaded",
			zap.String("source", src.Name()),
			zap.Int("count", len(holidays)))
		all = append(all, holidays...)
	}

	return all, nil
}

// Collect returns the month's holidays of every source as a set
func (cc *CompositeCalendar) Collect(ctx context.Context, year int, month time.Month) *timesheet.HolidaySet {
	set := timesheet.NewHolidaySet()

	holidays, _ := cc.Holidays(ctx, year, month)
	for _, h := range holidays {
		if inMonth(h.Date, year, month) {
			set.Add(h.Date)
		}
	}

	return set
}
