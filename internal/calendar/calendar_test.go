package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//holidays//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:tiradentes@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240421\r\n" +
	"DTEND;VALUE=DATE:20240422\r\n" +
	"SUMMARY:Tiradentes\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:bridge@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240429\r\n" +
	"DTEND;VALUE=DATE:20240501\r\n" +
	"SUMMARY:Bridge\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:meeting@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240415T090000Z\r\n" +
	"DTEND:20240415T100000Z\r\n" +
	"SUMMARY:Meeting\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:labour@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240501\r\n" +
	"DTEND;VALUE=DATE:20240502\r\n" +
	"SUMMARY:Dia do Trabalho\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Holidays(context.Context, int, time.Month) ([]Holiday, error) {
	return nil, errors.New("unavailable")
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStaticCalendar(t *testing.T) {
	sc := NewStaticCalendar([]string{"2024-04-21", "30/04/2024", "not-a-date", "2024-05-01"}, zap.NewNop())

	holidays, err := sc.Holidays(context.Background(), 2024, time.April)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 30}, holidayDays(holidays))

	holidays, err = sc.Holidays(context.Background(), 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, holidayDays(holidays))
	assert.Equal(t, "static", sc.Name())
}

func TestFileCalendar(t *testing.T) {
	content := strings.Join([]string{
		"# Brazilian national holidays",
		"",
		"2024-04-21 Tiradentes",
		"25/12/2024 Natal",
		"bogus line",
		"01.05.2024",
	}, "\n")
	path := writeTemp(t, "holidays.txt", content)

	fc := NewFileCalendar(path, zap.NewNop())
	require.NoError(t, fc.Load())

	april, err := fc.Holidays(context.Background(), 2024, time.April)
	require.NoError(t, err)
	require.Len(t, april, 1)
	assert.Equal(t, 21, april[0].Date.Day())
	assert.Equal(t, "Tiradentes", april[0].Note)

	dec, err := fc.Holidays(context.Background(), 2024, time.December)
	require.NoError(t, err)
	assert.Equal(t, []int{25}, holidayDays(dec))

	may, err := fc.Holidays(context.Background(), 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, holidayDays(may))

	june, err := fc.Holidays(context.Background(), 2024, time.June)
	require.NoError(t, err)
	assert.Empty(t, june)
}

func TestFileCalendar_MissingFile(t *testing.T) {
	fc := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())

	_, err := fc.Holidays(context.Background(), 2024, time.April)
	assert.Error(t, err)
}

func TestParseICS(t *testing.T) {
	holidays, err := parseICS(strings.NewReader(testICS))
	require.NoError(t, err)

	var keys []string
	for _, h := range holidays {
		keys = append(keys, h.Date.Format("2006-01-02")+" "+h.Note)
	}
	assert.Equal(t, []string{
		"2024-04-21 Tiradentes",
		"2024-04-29 Bridge",
		"2024-04-30 Bridge",
		"2024-05-01 Dia do Trabalho",
	}, keys)
}

func TestICSCalendar_File(t *testing.T) {
	path := writeTemp(t, "holidays.ics", testICS)
	ic := NewICSCalendar(path, zap.NewNop())

	holidays, err := ic.Holidays(context.Background(), 2024, time.April)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 29, 30}, holidayDays(holidays))
}

func TestICSCalendar_HTTP(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/calendar")
		fmt.Fprint(w, testICS)
	}))
	defer srv.Close()

	ic := NewICSCalendar(srv.URL+"/holidays.ics", zap.NewNop())

	may, err := ic.Holidays(context.Background(), 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, holidayDays(may))

	april, err := ic.Holidays(context.Background(), 2024, time.April)
	require.NoError(t, err)
	assert.Len(t, april, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestICSCalendar_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ic := NewICSCalendar(srv.URL, zap.NewNop())
	_, err := ic.Holidays(context.Background(), 2024, time.April)
	assert.Error(t, err)
}

func TestCompositeCalendar(t *testing.T) {
	static := NewStaticCalendar([]string{"2024-04-21", "2024-04-30"}, zap.NewNop())
	ics := NewICSCalendar(writeTemp(t, "h.ics", testICS), zap.NewNop())
	cc := NewCompositeCalendar(zap.NewNop(), failingSource{}, static, ics)

	assert.Equal(t, 3, cc.Len())

	holidays, err := cc.Holidays(context.Background(), 2024, time.April)
	require.NoError(t, err)
	assert.Len(t, holidays, 5)

	set := cc.Collect(context.Background(), 2024, time.April)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC)))
	assert.True(t, set.Contains(time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, set.Contains(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCompositeCalendar_Empty(t *testing.T) {
	cc := NewCompositeCalendar(zap.NewNop())

	set := cc.Collect(context.Background(), 2024, time.April)
	assert.Equal(t, 0, set.Len())
}
