package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/username/timesheet-gen/internal/export"
	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

var (
	ErrInvalidYear    = errors.New("year must be between 1 and 9999")
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrInvalidHoliday = errors.New("invalid holiday date")
	ErrInvalidFormat  = errors.New("format must be json, csv or xlsx")
)

// HolidayCollector provides the holidays of a month
type HolidayCollector interface {
	Collect(ctx context.Context, year int, month time.Month) *timesheet.HolidaySet
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Handler serves the timesheet API
type Handler struct {
	builder   *timesheet.Builder
	holidays  HolidayCollector
	tolerance int // minutes, printed on XLSX exports
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a handler. holidays may be nil when no holiday source is configured.
func NewHandler(builder *timesheet.Builder, holidays HolidayCollector, tolerance int, logger *zap.Logger) *Handler {
	if holidays == nil {
		holidays = noHolidays{}
	}
	return &Handler{
		builder:   builder,
		holidays:  holidays,
		tolerance: tolerance,
		logger:    logger,
		now:       time.Now,
	}
}

type noHolidays struct{}

func (noHolidays) Collect(context.Context, int, time.Month) *timesheet.HolidaySet {
	return timesheet.NewHolidaySet()
}

// ListSchedules returns the schedule catalog.
// GET /api/schedules
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.builder.Schedules())
}

// timesheetRequest holds the parsed query of GetTimesheet
type timesheetRequest struct {
	year     int
	month    time.Month
	schedule string
	holidays []time.Time
	format   string
}

func (h *Handler) parseTimesheetRequest(r *http.Request) (timesheetRequest, error) {
	q := r.URL.Query()
	now := h.now().In(h.builder.Location())

	req := timesheetRequest{
		year:     now.Year(),
		month:    now.Month(),
		schedule: q.Get("schedule"),
		format:   q.Get("format"),
	}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 || year > 9999 {
			return req, ErrInvalidYear
		}
		req.year = year
	}

	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return req, ErrInvalidMonth
		}
		req.month = time.Month(month)
	}

	for _, v := range q["holiday"] {
		date, err := dateutil.ParseDate(v)
		if err != nil {
			return req, fmt.Errorf("%w: %q", ErrInvalidHoliday, v)
		}
		req.holidays = append(req.holidays, date)
	}

	switch req.format {
	case "", "json", "csv", "xlsx":
	default:
		return req, ErrInvalidFormat
	}

	return req, nil
}

// GetTimesheet generates a month.
// GET /api/timesheets?year=2024&month=4&schedule=standard&holiday=2024-04-21&format=xlsx
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseTimesheetRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	holidays := h.holidays.Collect(r.Context(), req.year, req.month)
	holidays.Merge(timesheet.NewHolidaySet(req.holidays...))

	ts := h.builder.Build(req.year, req.month, req.schedule, holidays)
	filename := fmt.Sprintf("timesheet-%d-%02d-%s", ts.Year, int(ts.Month), ts.Schedule.ID)

	switch req.format {
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, ts, export.XLSXOptions{ToleranceMinutes: h.tolerance}); err != nil {
			h.logger.Error("Failed to render workbook", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to render workbook", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())

	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, ts); err != nil {
			h.logger.Error("Failed to render csv", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to render csv", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())

	default:
		writeJSON(w, http.StatusOK, export.NewDocument(ts))
	}
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"schedules": len(h.builder.Schedules()),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
