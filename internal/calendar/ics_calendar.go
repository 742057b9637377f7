package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	ical "github.com/emersion/go-ical"
	"go.uber.org/zap"
)

const icsMaxFileSize = 5 * 1024 * 1024

// ICSCalendar reads all-day events of an iCalendar feed (file path or http(s)/webcal URL) as holidays
type ICSCalendar struct {
	source     string
	httpClient *http.Client
	logger     *zap.Logger

	mu       sync.Mutex
	holidays []Holiday
	loaded   bool
}

// NewICSCalendar creates a new ICSCalendar instance
func NewICSCalendar(source string, logger *zap.Logger) *ICSCalendar {
	return &ICSCalendar{
		source: source,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger: logger,
	}
}

// Name implements Source
func (c *ICSCalendar) Name() string {
	return "ics:" + c.source
}

// Holidays implements Source. The feed is fetched once and reused.
func (c *ICSCalendar) Holidays(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		holidays, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.holidays = holidays
		c.loaded = true

		c.logger.Info("ICS holidays loaded",
			zap.String("source", c.source),
			zap.Int("holidays", len(holidays)))
	}

	var out []Holiday
	for _, h := range c.holidays {
		if inMonth(h.Date, year, month) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (c *ICSCalendar) fetch(ctx context.Context) ([]Holiday, error) {
	var r io.ReadCloser

	src := c.source
	if strings.HasPrefix(src, "webcal://") {
		src = "https://" + strings.TrimPrefix(src, "webcal://")
	}

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	return parseICS(io.LimitReader(r, icsMaxFileSize))
}

// parseICS expands every all-day VEVENT into one holiday per covered day.
// Timed events are not holidays and are skipped.
func parseICS(r io.Reader) ([]Holiday, error) {
	dec := ical.NewDecoder(r)
	var holidays []Holiday

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			startProp := event.Props.Get(ical.PropDateTimeStart)
			if startProp == nil || startProp.ValueType() != ical.ValueDate {
				continue
			}

			start, err := event.DateTimeStart(time.UTC)
			if err != nil {
				continue
			}
			// DTEND of an all-day event is exclusive
			end, err := event.DateTimeEnd(time.UTC)
			if err != nil || !end.After(start) {
				end = start.AddDate(0, 0, 1)
			}

			summary, _ := event.Props.Text(ical.PropSummary)
			for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
				holidays = append(holidays, newHoliday(d, summary))
			}
		}
	}

	return holidays, nil
}
