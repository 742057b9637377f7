package timesheet

import (
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
)

// Entry is one calendar day of a timesheet: either a WorkingDay or a NonWorkingDay
type Entry interface {
	Date() time.Time
	Weekday() string
	Working() bool
	Row() Row
}

// WorkingDay is a day with generated clock times
type WorkingDay struct {
	Day     time.Time
	DayName string
	Times   DayTimes
}

// Date implements Entry
func (w WorkingDay) Date() time.Time { return w.Day }

// Weekday implements Entry
func (w WorkingDay) Weekday() string { return w.DayName }

// Working implements Entry
func (w WorkingDay) Working() bool { return true }

// Worked returns the total worked time of the day
func (w WorkingDay) Worked() time.Duration { return w.Times.Worked() }

// Row implements Entry
func (w WorkingDay) Row() Row {
	return Row{
		Date:           dateutil.DayKey(w.Day),
		DayOfWeek:      w.DayName,
		MorningEntry:   FormatClock(w.Times.MorningEntry),
		MorningExit:    FormatClock(w.Times.MorningExit),
		AfternoonEntry: FormatClock(w.Times.AfternoonEntry),
		AfternoonExit:  FormatClock(w.Times.AfternoonExit),
		TotalWorked:    FormatWorked(w.Worked()),
	}
}

// NonWorkingDay is a weekend or holiday; it never carries times
type NonWorkingDay struct {
	Day     time.Time
	DayName string
	Weekend bool
	Holiday bool
}

// Date implements Entry
func (n NonWorkingDay) Date() time.Time { return n.Day }

// Weekday implements Entry
func (n NonWorkingDay) Weekday() string { return n.DayName }

// Working implements Entry
func (n NonWorkingDay) Working() bool { return false }

// Row implements Entry
func (n NonWorkingDay) Row() Row {
	return Row{
		Date:      dateutil.DayKey(n.Day),
		DayOfWeek: n.DayName,
		IsWeekend: n.Weekend,
		IsHoliday: n.Holiday,
	}
}

// Row is the flat, display-ready view of an entry. Non-working days leave times empty.
type Row struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	IsWeekend      bool   `json:"is_weekend"`
	IsHoliday      bool   `json:"is_holiday"`
	MorningEntry   string `json:"morning_entry"`
	MorningExit    string `json:"morning_exit"`
	AfternoonEntry string `json:"afternoon_entry"`
	AfternoonExit  string `json:"afternoon_exit"`
	TotalWorked    string `json:"total_worked"`
}

// Summary aggregates a timesheet
type Summary struct {
	Days     int           `json:"days"`
	Workdays int           `json:"workdays"`
	Weekends int           `json:"weekends"`
	Holidays int           `json:"holidays"`
	Worked   time.Duration `json:"-"`
	// WorkedText is Worked formatted like a day total
	WorkedText string `json:"worked"`
}

// Timesheet is a generated month, one entry per day in ascending order
type Timesheet struct {
	Year     int
	Month    time.Month
	Schedule WorkSchedule
	Entries  []Entry
}

// Rows flattens every entry
func (ts *Timesheet) Rows() []Row {
	rows := make([]Row, len(ts.Entries))
	for i, e := range ts.Entries {
		rows[i] = e.Row()
	}
	return rows
}

// Summary counts day kinds and sums worked time.
// A weekend that is also a holiday counts in both.
func (ts *Timesheet) Summary() Summary {
	s := Summary{Days: len(ts.Entries)}
	for _, e := range ts.Entries {
		switch day := e.(type) {
		case WorkingDay:
			s.Workdays++
			s.Worked += day.Worked()
		case NonWorkingDay:
			if day.Weekend {
				s.Weekends++
			}
			if day.Holiday {
				s.Holidays++
			}
		}
	}
	s.WorkedText = FormatWorked(s.Worked)
	return s
}
