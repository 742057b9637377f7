package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/timesheet-gen/internal/calendar"
	"github.com/username/timesheet-gen/internal/config"
	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/username/timesheet-gen/pkg/random"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timesheet-gen",
		Short: "Synthetic monthly timesheet generator",
		Long:  "Generate plausible monthly timesheets with jittered clock-in/out times, weekends and holidays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log settings
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info")
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info")
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ./config.yaml, ~/.timesheet-gen, /etc/timesheet-gen)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(schedulesCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newBuilder wires catalog, jitter engine and day names from cfg.
// A non-zero seed makes output reproducible.
func newBuilder(cfg *config.Config, locale string, seed int64, concurrent bool) (*timesheet.Builder, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	var src random.Source = random.New(seed)
	if concurrent {
		src = random.NewLocked(src)
	}
	engine := timesheet.NewJitterEngine(cfg.JitterRules(), src)

	return timesheet.NewBuilder(
		catalog,
		engine,
		cfg.Timesheet.Location(),
		timesheet.DayNamerFor(locale),
		logger,
	), nil
}

// newHolidaySources builds the composite holiday source from cfg plus extra dates
func newHolidaySources(cfg *config.Config, extra []string) *calendar.CompositeCalendar {
	dates := append(append([]string{}, cfg.Holidays.Dates...), extra...)
	sources := []calendar.Source{calendar.NewStaticCalendar(dates, logger)}

	if cfg.Holidays.File != "" {
		sources = append(sources, calendar.NewFileCalendar(cfg.Holidays.File, logger))
	}
	if cfg.Holidays.ICS != "" {
		sources = append(sources, calendar.NewICSCalendar(cfg.Holidays.ICS, logger))
	}
	if cfg.Holidays.IsDayOff.Enabled {
		logger.Info("Using isdayoff.ru calendar API", zap.String("country", cfg.Holidays.IsDayOff.Country))
		sources = append(sources, calendar.NewIsDayOffCalendar(calendar.IsDayOffOptions{
			BaseURL:     cfg.Holidays.IsDayOff.BaseURL,
			Country:     cfg.Holidays.IsDayOff.Country,
			FallbackURL: cfg.Holidays.IsDayOff.FallbackURL,
			CacheTTL:    cfg.Holidays.IsDayOff.GetCacheTTL(),
		}, logger))
	}

	return calendar.NewCompositeCalendar(logger, sources...)
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
