package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/username/timesheet-gen/internal/config"
	"github.com/username/timesheet-gen/internal/timesheet"
)

func TestGenerateOptions_Period(t *testing.T) {
	now := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		opts      generateOptions
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{"current month", generateOptions{}, 2024, time.January, false},
		{"explicit", generateOptions{year: 2023, month: 7}, 2023, time.July, false},
		{"previous wraps year", generateOptions{prev: true}, 2023, time.December, false},
		{"next", generateOptions{next: true}, 2024, time.February, false},
		{"next from december", generateOptions{year: 2024, month: 12, next: true}, 2025, time.January, false},
		{"month out of range", generateOptions{month: 13}, 0, 0, true},
		{"year out of range", generateOptions{year: 10000}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := tt.opts.period(now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  dates: [\"2024-04-21\"]\n"), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestGenerateWiring(t *testing.T) {
	logger = zap.NewNop()
	cfg := testConfig(t)

	builder, err := newBuilder(cfg, "pt-BR", 11, true)
	require.NoError(t, err)

	holidays := newHolidaySources(cfg, []string{"2024-04-10"}).Collect(context.Background(), 2024, time.April)
	assert.Equal(t, 2, holidays.Len())

	ts := builder.Build(2024, time.April, "standard", holidays)
	require.Len(t, ts.Entries, 30)
	assert.Equal(t, "segunda-feira", ts.Entries[0].Weekday())
	assert.Equal(t, 21, ts.Summary().Workdays)
}

func TestWriteTimesheet(t *testing.T) {
	logger = zap.NewNop()
	builder, err := newBuilder(testConfig(t), "en", 5, false)
	require.NoError(t, err)
	ts := builder.Build(2024, time.April, "standard", timesheet.NewHolidaySet())

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeTimesheet(&out, ts, "table", "", 10))
		assert.Contains(t, out.String(), "2024-04-01")
		assert.Contains(t, out.String(), "22 workdays")
	})

	t.Run("csv", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, writeTimesheet(&out, ts, "csv", "", 10))
		assert.Equal(t, 31, strings.Count(out.String(), "\n"))
	})

	t.Run("xlsx file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "april.xlsx")
		var out bytes.Buffer
		require.NoError(t, writeTimesheet(&out, ts, "xlsx", path, 10))
		assert.Contains(t, out.String(), path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("unknown format", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, writeTimesheet(&out, ts, "pdf", "", 10))
	})
}

func TestRenderSchedules(t *testing.T) {
	out := renderSchedules(timesheet.DefaultSchedules())
	assert.Contains(t, out, "extended-afternoon *")
	assert.Contains(t, out, "08:00 - 12:00")
	assert.Contains(t, out, "14:00 - 18:30")
}

func TestGenerateCmd_LogsOncePerRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger = zap.New(core)

	configPath = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timesheet:\n  seed: 3\n"), 0o644))
	t.Cleanup(func() { configPath = "" })

	cmd := generateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--year", "2024", "--month", "4", "--format", "csv"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 31, strings.Count(out.String(), "\n"))
	assert.Equal(t, 1, logs.FilterMessage("Timesheet generated").Len())
	assert.Equal(t, 1, logs.FilterMessage("Writing timesheet").Len())
}
