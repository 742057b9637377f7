package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/timesheet-gen/internal/config"
	"github.com/username/timesheet-gen/internal/export"
	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

type generateOptions struct {
	year     int
	month    int
	prev     bool
	next     bool
	schedule string
	holidays []string
	locale   string
	seed     int64
	format   string
	output   string
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the timesheet of a month",
		Example: `  timesheet-gen generate --year 2024 --month 4 --schedule standard --holiday 2024-04-21
  timesheet-gen generate --prev --format xlsx --output last-month.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if !cmd.Flags().Changed("locale") {
				opts.locale = cfg.Timesheet.Locale
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Timesheet.Seed
			}

			year, month, err := opts.period(time.Now().In(cfg.Timesheet.Location()))
			if err != nil {
				return err
			}

			builder, err := newBuilder(cfg, opts.locale, opts.seed, false)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			holidays := newHolidaySources(cfg, opts.holidays).Collect(ctx, year, month)

			ts := builder.Build(year, month, opts.schedule, holidays)

			logger.Debug("Writing timesheet",
				zap.String("format", opts.format),
				zap.String("output", opts.output))

			return writeTimesheet(cmd.OutOrStdout(), ts, opts.format, opts.output, cfg.Jitter.ToleranceMaxDelay)
		},
	}

	cmd.Flags().IntVar(&opts.year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&opts.month, "month", 0, "Month 1-12 (default: current)")
	cmd.Flags().BoolVar(&opts.prev, "prev", false, "Generate the month before --year/--month")
	cmd.Flags().BoolVar(&opts.next, "next", false, "Generate the month after --year/--month")
	cmd.Flags().StringVarP(&opts.schedule, "schedule", "s", "", "Schedule id (default: first catalog schedule)")
	cmd.Flags().StringSliceVar(&opts.holidays, "holiday", nil, "Extra holiday date, repeatable (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&opts.locale, "locale", "en", "Weekday name locale: en or pt-BR")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for reproducible output (0 = random)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json, csv or xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout; xlsx defaults to timesheet-YYYY-MM-<schedule>.xlsx)")
	cmd.MarkFlagsMutuallyExclusive("prev", "next")

	return cmd
}

// period resolves the requested month relative to now
func (o generateOptions) period(now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()

	if o.year != 0 {
		if o.year < 1 || o.year > 9999 {
			return 0, 0, fmt.Errorf("year must be between 1 and 9999, got %d", o.year)
		}
		year = o.year
	}
	if o.month != 0 {
		if o.month < 1 || o.month > 12 {
			return 0, 0, fmt.Errorf("month must be between 1 and 12, got %d", o.month)
		}
		month = time.Month(o.month)
	}

	switch {
	case o.prev:
		year, month = dateutil.AddMonths(year, month, -1)
	case o.next:
		year, month = dateutil.AddMonths(year, month, 1)
	}

	return year, month, nil
}

func writeTimesheet(stdout io.Writer, ts *timesheet.Timesheet, format, output string, tolerance int) error {
	switch format {
	case "table", "json", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown format %q: use table, json, csv or xlsx", format)
	}
	if format == "xlsx" && output == "" {
		output = fmt.Sprintf("timesheet-%d-%02d-%s.xlsx", ts.Year, int(ts.Month), ts.Schedule.ID)
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch format {
	case "table":
		_, err = io.WriteString(w, renderTimesheet(ts)+"\n")
	case "json":
		err = export.WriteJSON(w, ts)
	case "csv":
		err = export.WriteCSV(w, ts)
	case "xlsx":
		err = export.WriteXLSX(w, ts, export.XLSXOptions{ToleranceMinutes: tolerance})
	}
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(stdout, "Written %s\n", output)
	}
	return nil
}
