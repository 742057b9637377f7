package export

import (
	"fmt"
	"io"

	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the timesheet
const SheetName = "Timesheet"

const (
	titleRow  = 1
	noteRow   = 2
	headerRow = 4
	firstRow  = 5
)

var xlsxHeaders = []string{
	"Date", "Day", "Weekend", "Holiday",
	"Morning entry", "Morning exit", "Afternoon entry", "Afternoon exit", "Worked",
}

// XLSXOptions tunes the printable workbook
type XLSXOptions struct {
	// ToleranceMinutes is printed in the note under the title; 0 omits the note
	ToleranceMinutes int
}

// WriteXLSX writes ts as a printable single-sheet workbook.
// Layout: title, tolerance note, header on row 4, one row per day, then the summary.
func WriteXLSX(w io.Writer, ts *timesheet.Timesheet, opts XLSXOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(SheetName, "A", "A", 12)
	f.SetColWidth(SheetName, "B", "B", 16)
	f.SetColWidth(SheetName, "C", "D", 9)
	f.SetColWidth(SheetName, "E", "I", 15)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	offStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#7F7F7F"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDEDED"}, Pattern: 1},
	})
	lastCol := colName(len(xlsxHeaders) - 1)

	title := fmt.Sprintf("Timesheet %d-%02d - %s", ts.Year, int(ts.Month), ts.Schedule.Name)
	f.SetCellValue(SheetName, cell("A", titleRow), title)
	f.MergeCell(SheetName, cell("A", titleRow), cell(lastCol, titleRow))
	f.SetCellStyle(SheetName, cell("A", titleRow), cell("A", titleRow), titleStyle)

	if opts.ToleranceMinutes > 0 {
		f.SetCellValue(SheetName, cell("A", noteRow),
			fmt.Sprintf("Entry tolerance: up to %d minutes after the scheduled time", opts.ToleranceMinutes))
		f.MergeCell(SheetName, cell("A", noteRow), cell(lastCol, noteRow))
	}

	for i, h := range xlsxHeaders {
		f.SetCellValue(SheetName, cell(colName(i), headerRow), h)
	}
	f.SetCellStyle(SheetName, cell("A", headerRow), cell(lastCol, headerRow), headerStyle)

	row := firstRow
	for _, r := range ts.Rows() {
		values := []interface{}{
			r.Date, r.DayOfWeek, yesNo(r.IsWeekend), yesNo(r.IsHoliday),
			r.MorningEntry, r.MorningExit, r.AfternoonEntry, r.AfternoonExit, r.TotalWorked,
		}
		if err := f.SetSheetRow(SheetName, cell("A", row), &values); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Date, err)
		}
		if r.IsWeekend || r.IsHoliday {
			f.SetCellStyle(SheetName, cell("A", row), cell(lastCol, row), offStyle)
		}
		row++
	}

	summary := ts.Summary()
	row = summaryRow(len(ts.Entries))
	f.SetCellValue(SheetName, cell("A", row), "Workdays")
	f.SetCellValue(SheetName, cell("B", row), summary.Workdays)
	row++
	f.SetCellValue(SheetName, cell("A", row), "Total worked")
	f.SetCellValue(SheetName, cell("B", row), summary.WorkedText)

	f.SetPageLayout(SheetName, &excelize.PageLayoutOptions{
		Orientation: stringPtr("landscape"),
	})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// summaryRow is the sheet row of the "Workdays" line for a month of days
func summaryRow(days int) int {
	return firstRow + days + 1
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func stringPtr(s string) *string {
	return &s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
