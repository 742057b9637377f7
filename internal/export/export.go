// Package export renders generated timesheets as JSON, CSV and XLSX documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/username/timesheet-gen/internal/timesheet"
)

// Document is the serializable form of a timesheet
type Document struct {
	Year     int                       `json:"year"`
	Month    int                       `json:"month"`
	Schedule timesheet.ScheduleSummary `json:"schedule"`
	Rows     []timesheet.Row           `json:"rows"`
	Summary  timesheet.Summary         `json:"summary"`
}

// NewDocument flattens ts
func NewDocument(ts *timesheet.Timesheet) Document {
	return Document{
		Year:     ts.Year,
		Month:    int(ts.Month),
		Schedule: timesheet.ScheduleSummary{ID: ts.Schedule.ID, Name: ts.Schedule.Name},
		Rows:     ts.Rows(),
		Summary:  ts.Summary(),
	}
}

// WriteJSON writes ts as an indented Document
func WriteJSON(w io.Writer, ts *timesheet.Timesheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(ts)); err != nil {
		return fmt.Errorf("failed to encode timesheet: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"date", "day_of_week", "is_weekend", "is_holiday",
	"morning_entry", "morning_exit", "afternoon_entry", "afternoon_exit", "total_worked",
}

// WriteCSV writes one header line plus one line per day
func WriteCSV(w io.Writer, ts *timesheet.Timesheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range ts.Rows() {
		record := []string{
			r.Date, r.DayOfWeek,
			strconv.FormatBool(r.IsWeekend), strconv.FormatBool(r.IsHoliday),
			r.MorningEntry, r.MorningExit, r.AfternoonEntry, r.AfternoonExit, r.TotalWorked,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Date, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteSchedulesJSON writes the schedule selector list
func WriteSchedulesJSON(w io.Writer, schedules []timesheet.ScheduleSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schedules); err != nil {
		return fmt.Errorf("failed to encode schedules: %w", err)
	}
	return nil
}
