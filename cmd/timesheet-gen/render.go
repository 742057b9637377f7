package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/username/timesheet-gen/internal/timesheet"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// renderTimesheet draws ts as a terminal table followed by its summary
func renderTimesheet(ts *timesheet.Timesheet) string {
	rows := ts.Rows()
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			r.Date, r.DayOfWeek, dayKind(r),
			r.MorningEntry, r.MorningExit, r.AfternoonEntry, r.AfternoonExit, r.TotalWorked,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Date", "Day", "", "In", "Out", "In", "Out", "Worked").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && (rows[row].IsWeekend || rows[row].IsHoliday):
				return offStyle
			default:
				return cellStyle
			}
		})

	s := ts.Summary()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d-%02d  %s", ts.Year, int(ts.Month), ts.Schedule.Name)))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d workdays, %d weekend days, %d holidays, %s worked",
		s.Workdays, s.Weekends, s.Holidays, s.WorkedText)))
	return b.String()
}

func dayKind(r timesheet.Row) string {
	switch {
	case r.IsHoliday:
		return "holiday"
	case r.IsWeekend:
		return "weekend"
	default:
		return ""
	}
}

// renderSchedules draws the catalog, default schedule first
func renderSchedules(schedules []timesheet.WorkSchedule) string {
	data := make([][]string, len(schedules))
	for i, s := range schedules {
		id := s.ID
		if i == 0 {
			id += " *"
		}
		data[i] = []string{
			id, s.Name,
			s.MorningEntry.String() + " - " + s.MorningExit.String(),
			s.AfternoonEntry.String() + " - " + s.AfternoonExit.String(),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Name", "Morning", "Afternoon").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render() + "\n" + offStyle.Render("* default for unknown ids")
}
