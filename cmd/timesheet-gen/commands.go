package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/timesheet-gen/internal/config"
	"github.com/username/timesheet-gen/internal/export"
	"github.com/username/timesheet-gen/internal/server"
	"github.com/username/timesheet-gen/internal/timesheet"
	"go.uber.org/zap"
)

func schedulesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "List the schedule catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			catalog, err := cfg.Catalog()
			if err != nil {
				return err
			}

			if asJSON {
				return export.WriteSchedulesJSON(cmd.OutOrStdout(), catalog.List())
			}

			var schedules []timesheet.WorkSchedule
			for _, s := range catalog.List() {
				if ws, ok := catalog.Lookup(s.ID); ok {
					schedules = append(schedules, ws)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSchedules(schedules))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timesheet HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			builder, err := newBuilder(cfg, cfg.Timesheet.Locale, cfg.Timesheet.Seed, true)
			if err != nil {
				return err
			}
			holidays := newHolidaySources(cfg, nil)

			handler := server.NewHandler(builder, holidays, cfg.Jitter.ToleranceMaxDelay, logger)
			srv := server.NewServer(addr, handler, cfg.Server.AllowedOrigins, cfg.Server.GetWarmInterval(), logger)

			logger.Info("Starting timesheet API",
				zap.String("addr", addr),
				zap.Int("schedules", len(builder.Schedules())),
				zap.Int("holiday_sources", holidays.Len()))

			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")

	return cmd
}
