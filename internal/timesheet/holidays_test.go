package timesheet

import (
	"testing"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
)

func TestHolidaySet_DayLevelMembership(t *testing.T) {
	hs := NewHolidaySet(time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC))

	brt := dateutil.FixedZone(-3)
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"same instant", time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC), true},
		{"later the same day", time.Date(2024, 4, 21, 18, 45, 0, 0, time.UTC), true},
		{"same calendar day in another zone", time.Date(2024, 4, 21, 0, 0, 0, 0, brt), true},
		{"next day", time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC), false},
		{"same day other year", time.Date(2023, 4, 21, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hs.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestHolidaySet_AddTwiceIsIdempotent(t *testing.T) {
	hs := NewHolidaySet()
	hs.Add(time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC))
	hs.Add(time.Date(2024, 12, 25, 17, 0, 0, 0, time.UTC))

	if hs.Len() != 1 {
		t.Errorf("Len() = %d, want 1", hs.Len())
	}
}

func TestHolidaySet_RemoveAbsentIsNoop(t *testing.T) {
	hs := NewHolidaySet(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	hs.Remove(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	if hs.Len() != 1 || !hs.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Remove of absent day changed the set: %v", hs.Dates())
	}

	hs.Remove(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	if hs.Len() != 0 {
		t.Errorf("Len() after Remove = %d, want 0", hs.Len())
	}
}

func TestHolidaySet_ClearAndDates(t *testing.T) {
	hs := NewHolidaySet(
		time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 7, 0, 0, 0, 0, time.UTC),
	)

	dates := hs.Dates()
	want := []string{"2024-04-21", "2024-09-07", "2024-11-15"}
	if len(dates) != len(want) {
		t.Fatalf("Dates() len = %d, want %d", len(dates), len(want))
	}
	for i, d := range dates {
		if dateutil.DayKey(d) != want[i] {
			t.Errorf("Dates()[%d] = %s, want %s", i, dateutil.DayKey(d), want[i])
		}
	}

	hs.Clear()
	if hs.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", hs.Len())
	}
}

func TestHolidaySet_DatesAreUTCMidnight(t *testing.T) {
	evening := time.Date(2024, 4, 21, 22, 15, 0, 0, dateutil.FixedZone(-3))
	dates := NewHolidaySet(evening).Dates()

	want := time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC)
	if len(dates) != 1 || !dates[0].Equal(want) || dates[0].Location() != time.UTC {
		t.Errorf("Dates() = %v, want [%v]", dates, want)
	}
}

func TestHolidaySet_NilAndMerge(t *testing.T) {
	var nilSet *HolidaySet
	if nilSet.Contains(time.Now()) || nilSet.Len() != 0 || nilSet.Dates() != nil {
		t.Error("nil HolidaySet should behave as empty")
	}

	a := NewHolidaySet(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := NewHolidaySet(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC),
	)
	a.Merge(b)
	a.Merge(nil)

	if a.Len() != 2 {
		t.Errorf("Len() after Merge = %d, want 2", a.Len())
	}
}
