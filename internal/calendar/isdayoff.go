package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// IsDayOffOptions configures IsDayOffCalendar
type IsDayOffOptions struct {
	BaseURL     string        // defaults to https://isdayoff.ru
	Country     string        // isdayoff "cc" parameter, empty for the service default
	FallbackURL string        // xmlcalendar-style URL with a {year} placeholder, empty disables fallback
	CacheTTL    time.Duration // defaults to 24h
}

// IsDayOffCalendar implements Source using the isdayoff.ru bulk API,
// falling back to xmlcalendar-style yearly JSON when the API is unavailable.
// Only non-working weekdays are reported; ordinary weekends are not holidays.
type IsDayOffCalendar struct {
	httpClient   *http.Client
	logger       *zap.Logger
	baseURL      string
	country      string
	fallbackURL  string
	cacheTTL     time.Duration
	now          func() time.Time
	cache        map[string]*cachedMonth
	fallbackData map[int]*xmlCalendarYear // year → calendar data
	cacheMu      sync.RWMutex
}

type cachedMonth struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year        int                `json:"year"`
	Months      []xmlCalendarMonth `json:"months"`
	Transitions []xmlTransition    `json:"transitions"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

type xmlTransition struct {
	From string `json:"from"` // "MM.DD"
	To   string `json:"to"`   // "MM.DD"
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance
func NewIsDayOffCalendar(opts IsDayOffOptions, logger *zap.Logger) *IsDayOffCalendar {
	if opts.BaseURL == "" {
		opts.BaseURL = isdayoffBaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	return &IsDayOffCalendar{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		country:      opts.Country,
		fallbackURL:  opts.FallbackURL,
		cacheTTL:     opts.CacheTTL,
		now:          time.Now,
		cache:        make(map[string]*cachedMonth),
		fallbackData: make(map[int]*xmlCalendarYear),
	}
}

// Name implements Source
func (c *IsDayOffCalendar) Name() string {
	return "isdayoff"
}

// Holidays implements Source
func (c *IsDayOffCalendar) Holidays(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	key := monthKey(year, month)

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok && c.now().Sub(cached.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached month info", zap.String("month", key))
		return cached.holidays, nil
	}
	c.cacheMu.RUnlock()

	holidays, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))

		var fallbackErr error
		holidays, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}

		c.logger.Info("Using fallback data", zap.String("month", key))
	}

	c.cacheMu.Lock()
	c.cache[key] = &cachedMonth{
		holidays:  holidays,
		fetchedAt: c.now(),
	}
	c.cacheMu.Unlock()

	return holidays, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	// https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", c.baseURL, year, int(month))
	if c.country != "" {
		url += "&cc=" + c.country
	}

	c.logger.Debug("Fetching month from isdayoff",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	holidays, err := parseBulkResponse(year, month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month info fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (working)
func parseBulkResponse(year int, month time.Month, data string) ([]Holiday, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	var holidays []Holiday
	for i, code := range data {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)

		switch code {
		case '0', '2':
		case '1':
			if dateutil.IsWeekday(date) {
				holidays = append(holidays, newHoliday(date, ""))
			}
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return holidays, nil
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	c.cacheMu.RLock()
	yearData, exists := c.fallbackData[year]
	c.cacheMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.cacheMu.Lock()
		c.fallbackData[year] = yearData
		c.cacheMu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return c.parseXMLCalendarMonth(year, month, &yearData.Months[i]), nil
		}
	}

	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fallback data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback API returned status %d", resp.StatusCode)
	}

	var yearData xmlCalendarYear
	if err := json.NewDecoder(resp.Body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	c.logger.Info("Fallback data downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day (working), + = transferred day off, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(year int, month time.Month, xmlMonth *xmlCalendarMonth) []Holiday {
	daysInMonth := dateutil.DaysInMonth(year, month)
	var holidays []Holiday

	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, "*") {
			continue
		}

		day, err := strconv.Atoi(strings.TrimSuffix(part, "+"))
		if err != nil || day < 1 || day > daysInMonth {
			c.logger.Warn("Failed to parse day number", zap.String("part", part))
			continue
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if dateutil.IsWeekday(date) {
			holidays = append(holidays, newHoliday(date, ""))
		}
	}

	return holidays
}

// ClearCache clears the cache
func (c *IsDayOffCalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	c.fallbackData = make(map[int]*xmlCalendarYear)
	c.logger.Info("Calendar cache cleared")
}
