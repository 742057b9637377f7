package timesheet

import (
	"sort"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
)

// HolidaySet is a set of calendar days. Membership ignores time of day and location.
type HolidaySet struct {
	days map[string]time.Time // key: YYYY-MM-DD
}

// NewHolidaySet creates a set containing dates
func NewHolidaySet(dates ...time.Time) *HolidaySet {
	hs := &HolidaySet{days: make(map[string]time.Time)}
	for _, d := range dates {
		hs.Add(d)
	}
	return hs
}

// Add marks the day of date as a holiday. Adding a day twice is a no-op.
func (hs *HolidaySet) Add(date time.Time) {
	key := dateutil.DayKey(date)
	if _, ok := hs.days[key]; ok {
		return
	}
	hs.days[key] = dateutil.StartOfDay(date, time.UTC)
}

// Remove unmarks the day of date. Removing an absent day is a no-op.
func (hs *HolidaySet) Remove(date time.Time) {
	delete(hs.days, dateutil.DayKey(date))
}

// Clear removes every holiday
func (hs *HolidaySet) Clear() {
	hs.days = make(map[string]time.Time)
}

// Contains reports whether the day of date is a holiday.
// A nil set contains nothing.
func (hs *HolidaySet) Contains(date time.Time) bool {
	if hs == nil {
		return false
	}
	_, ok := hs.days[dateutil.DayKey(date)]
	return ok
}

// Len returns the number of distinct days
func (hs *HolidaySet) Len() int {
	if hs == nil {
		return 0
	}
	return len(hs.days)
}

// Dates returns the holidays sorted ascending, at midnight UTC
func (hs *HolidaySet) Dates() []time.Time {
	if hs == nil {
		return nil
	}
	out := make([]time.Time, 0, len(hs.days))
	for _, d := range hs.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// Merge adds every day of other
func (hs *HolidaySet) Merge(other *HolidaySet) {
	if other == nil {
		return
	}
	for _, d := range other.days {
		hs.Add(d)
	}
}
