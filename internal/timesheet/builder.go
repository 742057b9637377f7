package timesheet

import (
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

// Builder assembles a month of entries from a catalog schedule and a holiday set
type Builder struct {
	catalog *Catalog
	engine  *JitterEngine
	loc     *time.Location
	dayName DayNamer
	logger  *zap.Logger
}

// NewBuilder creates a builder. A nil loc means UTC, a nil dayName means English names.
func NewBuilder(catalog *Catalog, engine *JitterEngine, loc *time.Location, dayName DayNamer, logger *zap.Logger) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	if dayName == nil {
		dayName = EnglishDayName
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Builder{
		catalog: catalog,
		engine:  engine,
		loc:     loc,
		dayName: dayName,
		logger:  logger,
	}
}

// Schedules lists the catalog for schedule selectors
func (b *Builder) Schedules() []ScheduleSummary {
	return b.catalog.List()
}

// Location returns the zone generated times are anchored in
func (b *Builder) Location() *time.Location {
	return b.loc
}

// Build generates the timesheet of a month.
// An unknown scheduleID falls back to the first catalog schedule; Build never fails.
func (b *Builder) Build(year int, month time.Month, scheduleID string, holidays *HolidaySet) *Timesheet {
	schedule, ok := b.catalog.Lookup(scheduleID)
	if !ok {
		schedule = b.catalog.Resolve(scheduleID)
		b.logger.Debug("Unknown schedule, using catalog default",
			zap.String("requested", scheduleID),
			zap.String("schedule", schedule.ID))
	}

	daysInMonth := dateutil.DaysInMonth(year, month)
	ts := &Timesheet{
		Year:     year,
		Month:    month,
		Schedule: schedule,
		Entries:  make([]Entry, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, b.loc)
		isWeekend := dateutil.IsWeekend(date)
		isHoliday := holidays.Contains(date)
		name := b.dayName(date.Weekday())

		if isWeekend || isHoliday {
			ts.Entries = append(ts.Entries, NonWorkingDay{
				Day:     date,
				DayName: name,
				Weekend: isWeekend,
				Holiday: isHoliday,
			})
			continue
		}

		ts.Entries = append(ts.Entries, WorkingDay{
			Day:     date,
			DayName: name,
			Times:   b.engine.Generate(schedule, date),
		})
	}

	summary := ts.Summary()
	b.logger.Info("Timesheet generated",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.String("schedule", schedule.ID),
		zap.Int("workdays", summary.Workdays),
		zap.Int("holidays", summary.Holidays),
		zap.String("worked", summary.WorkedText))

	return ts
}
