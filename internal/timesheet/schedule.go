package timesheet

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule is returned when a schedule or catalog fails validation
var ErrInvalidSchedule = errors.New("invalid work schedule")

const minutesPerDay = 24 * 60

// TimeOfDay is a clock point within a day, independent of date
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Clock builds a TimeOfDay
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// ParseClock parses "HH:MM" (24h). Trailing input is rejected.
func ParseClock(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock(t.Hour(), t.Minute()), nil
}

// Minutes returns minutes since midnight
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Valid reports whether hour and minute are in range
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// WorkSchedule is a named base daily schedule with two work blocks
type WorkSchedule struct {
	ID             string
	Name           string
	MorningEntry   TimeOfDay
	MorningExit    TimeOfDay
	AfternoonEntry TimeOfDay
	AfternoonExit  TimeOfDay
}

// Validate checks clock ranges and entry < exit ordering of all four points
func (s WorkSchedule) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSchedule)
	}

	points := []TimeOfDay{s.MorningEntry, s.MorningExit, s.AfternoonEntry, s.AfternoonExit}
	for _, p := range points {
		if !p.Valid() {
			return fmt.Errorf("%w: %s has out-of-range clock %s", ErrInvalidSchedule, s.ID, p)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i].Minutes() <= points[i-1].Minutes() {
			return fmt.Errorf("%w: %s clock points must be strictly increasing (%s then %s)",
				ErrInvalidSchedule, s.ID, points[i-1], points[i])
		}
	}

	return nil
}

// ScheduleSummary is the selector view of a schedule
type ScheduleSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is an immutable ordered list of schedules.
// The first entry is the fallback for unknown ids.
type Catalog struct {
	schedules []WorkSchedule
	index     map[string]int
}

// NewCatalog validates and freezes schedules.
// rules bounds the worst-case morning block so the afternoon block stays positive.
func NewCatalog(schedules []WorkSchedule, rules JitterRules) (*Catalog, error) {
	if len(schedules) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidSchedule)
	}
	if rules.LateMinDelay < 0 || rules.ToleranceMaxDelay < 0 {
		return nil, fmt.Errorf("%w: entry delays must not be negative", ErrInvalidSchedule)
	}

	c := &Catalog{
		schedules: make([]WorkSchedule, len(schedules)),
		index:     make(map[string]int, len(schedules)),
	}
	copy(c.schedules, schedules)

	for i, s := range c.schedules {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSchedule, s.ID)
		}
		if worst := rules.MaxMorningMinutes(s); worst >= rules.MinTargetMinutes() {
			return nil, fmt.Errorf("%w: %s morning block can reach %d minutes, daily target may be %d",
				ErrInvalidSchedule, s.ID, worst, rules.MinTargetMinutes())
		}
		if latest := rules.LatestExitMinutes(s); latest >= minutesPerDay {
			return nil, fmt.Errorf("%w: %s afternoon exit can reach %s, past midnight",
				ErrInvalidSchedule, s.ID, Clock(latest/60, latest%60))
		}
		c.index[s.ID] = i
	}

	return c, nil
}

// DefaultSchedules returns the built-in presets in display order
func DefaultSchedules() []WorkSchedule {
	return []WorkSchedule{
		{
			ID:             "extended-afternoon",
			Name:           "Extended afternoon (10h - 12h, 13h - 19h)",
			MorningEntry:   Clock(10, 0),
			MorningExit:    Clock(12, 0),
			AfternoonEntry: Clock(13, 0),
			AfternoonExit:  Clock(19, 0),
		},
		{
			ID:             "standard",
			Name:           "Standard (8h - 12h, 13h - 17h)",
			MorningEntry:   Clock(8, 0),
			MorningExit:    Clock(12, 0),
			AfternoonEntry: Clock(13, 0),
			AfternoonExit:  Clock(17, 0),
		},
		{
			ID:             "early",
			Name:           "Early (7h - 11h, 12h - 16h)",
			MorningEntry:   Clock(7, 0),
			MorningExit:    Clock(11, 0),
			AfternoonEntry: Clock(12, 0),
			AfternoonExit:  Clock(16, 0),
		},
		{
			ID:             "late",
			Name:           "Late (9h - 13h, 14h - 18h)",
			MorningEntry:   Clock(9, 0),
			MorningExit:    Clock(13, 0),
			AfternoonEntry: Clock(14, 0),
			AfternoonExit:  Clock(18, 0),
		},
		{
			ID:             "late-afternoon",
			Name:           "Late (9:30h - 13h, 14h - 18:30h)",
			MorningEntry:   Clock(9, 30),
			MorningExit:    Clock(13, 0),
			AfternoonEntry: Clock(14, 0),
			AfternoonExit:  Clock(18, 30),
		},
	}
}

// DefaultCatalog builds the catalog of built-in presets
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSchedules(), DefaultJitterRules())
	if err != nil {
		panic(fmt.Sprintf("built-in schedules are invalid: %v", err))
	}
	return c
}

// List returns id and name of every schedule in catalog order
func (c *Catalog) List() []ScheduleSummary {
	out := make([]ScheduleSummary, len(c.schedules))
	for i, s := range c.schedules {
		out[i] = ScheduleSummary{ID: s.ID, Name: s.Name}
	}
	return out
}

// Lookup returns the schedule with the given id
func (c *Catalog) Lookup(id string) (WorkSchedule, bool) {
	i, ok := c.index[id]
	if !ok {
		return WorkSchedule{}, false
	}
	return c.schedules[i], true
}

// Resolve returns the schedule with the given id, or the first one when id is unknown
func (c *Catalog) Resolve(id string) WorkSchedule {
	if s, ok := c.Lookup(id); ok {
		return s
	}
	return c.schedules[0]
}

// Len returns the number of schedules
func (c *Catalog) Len() int {
	return len(c.schedules)
}
