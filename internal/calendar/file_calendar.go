package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar reads holidays from a local text file.
//
// Format, one holiday per line:
//
//	# comment
//	2024-04-21 Tiradentes
//	25/12/2024 Natal
type FileCalendar struct {
	filePath string
	logger   *zap.Logger

	once    sync.Once
	loadErr error
	data    map[string][]Holiday // key: "YYYY-MM"
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]Holiday),
	}
}

// Name implements Source
func (fc *FileCalendar) Name() string {
	return "file:" + fc.filePath
}

// Load reads the file. Holidays calls it lazily on first use.
func (fc *FileCalendar) Load() error {
	fc.once.Do(func() {
		file, err := os.Open(fc.filePath)
		if err != nil {
			fc.loadErr = fmt.Errorf("failed to open holiday file: %w", err)
			return
		}
		defer file.Close()

		fc.loadErr = fc.parse(file)
	})
	return fc.loadErr
}

// parse fills data from r. Unparseable lines are logged and skipped.
func (fc *FileCalendar) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	count := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		dateStr, note, _ := strings.Cut(line, " ")
		date, err := dateutil.ParseDate(dateStr)
		if err != nil {
			fc.logger.Warn("Skipping holiday line", zap.String("line", line), zap.Error(err))
			continue
		}

		h := newHoliday(date, strings.TrimSpace(note))
		key := monthKey(h.Date.Year(), h.Date.Month())
		fc.data[key] = append(fc.data[key], h)
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fc.logger.Info("Holiday file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", count),
		zap.Int("months", len(fc.data)))

	return nil
}

// Holidays implements Source
func (fc *FileCalendar) Holidays(_ context.Context, year int, month time.Month) ([]Holiday, error) {
	if err := fc.Load(); err != nil {
		return nil, err
	}
	return fc.data[monthKey(year, month)], nil
}
