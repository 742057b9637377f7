package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/username/timesheet-gen/pkg/dateutil"
	"github.com/username/timesheet-gen/pkg/random"
)

func april2024(t *testing.T) *timesheet.Timesheet {
	t.Helper()
	engine := timesheet.NewJitterEngine(timesheet.DefaultJitterRules(), random.New(1))
	b := timesheet.NewBuilder(timesheet.DefaultCatalog(), engine, dateutil.FixedZone(-3), nil, nil)
	holidays := timesheet.NewHolidaySet(time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC))
	return b.Build(2024, time.April, "standard", holidays)
}

func TestWriteXLSX(t *testing.T) {
	ts := april2024(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ts, XLSXOptions{ToleranceMinutes: 10}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	get := func(axis string) string {
		v, err := f.GetCellValue(SheetName, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Timesheet 2024-04 - Standard (8h - 12h, 13h - 17h)", get("A1"))
	assert.Contains(t, get("A2"), "10 minutes")
	assert.Equal(t, "Date", get("A4"))
	assert.Equal(t, "Worked", get("I4"))

	// April 1 2024 is a Monday
	assert.Equal(t, "2024-04-01", get("A5"))
	assert.Equal(t, "Monday", get("B5"))
	assert.NotEmpty(t, get("E5"))
	assert.NotEmpty(t, get("I5"))

	// April 21 2024: Sunday and holiday, row 5 + 20
	assert.Equal(t, "2024-04-21", get("A25"))
	assert.Equal(t, "yes", get("C25"))
	assert.Equal(t, "yes", get("D25"))
	assert.Empty(t, get("E25"))

	sr := summaryRow(30)
	assert.Equal(t, "Workdays", get(cell("A", sr)))
	assert.Equal(t, "22", get(cell("B", sr)))
	assert.Equal(t, "Total worked", get(cell("A", sr+1)))
	assert.Equal(t, ts.Summary().WorkedText, get(cell("B", sr+1)))
}

func TestWriteXLSX_NoNote(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, april2024(t), XLSXOptions{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A2")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestWriteCSV(t *testing.T) {
	ts := april2024(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 31)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "2024-04-01", records[1][0])
	assert.Equal(t, []string{"2024-04-21", "Sunday", "true", "true", "", "", "", "", ""}, records[21])
}

func TestWriteJSON(t *testing.T) {
	ts := april2024(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ts))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 2024, doc.Year)
	assert.Equal(t, 4, doc.Month)
	assert.Equal(t, "standard", doc.Schedule.ID)
	assert.Len(t, doc.Rows, 30)
	assert.Equal(t, 22, doc.Summary.Workdays)
	assert.Equal(t, 8, doc.Summary.Weekends)
	assert.Equal(t, 1, doc.Summary.Holidays)
	assert.Equal(t, ts.Summary().WorkedText, doc.Summary.WorkedText)
}

func TestWriteSchedulesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchedulesJSON(&buf, timesheet.DefaultCatalog().List()))

	var got []timesheet.ScheduleSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "extended-afternoon", got[0].ID)
}
