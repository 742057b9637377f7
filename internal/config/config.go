package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/timesheet-gen/internal/timesheet"
	"github.com/username/timesheet-gen/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Timesheet TimesheetConfig  `mapstructure:"timesheet"`
	Jitter    JitterConfig     `mapstructure:"jitter"`
	Schedules []ScheduleConfig `mapstructure:"schedules"`
	Holidays  HolidaysConfig   `mapstructure:"holidays"`
	Server    ServerConfig     `mapstructure:"server"`
	Log       LogConfig        `mapstructure:"log"`
}

// TimesheetConfig represents generation defaults
type TimesheetConfig struct {
	DefaultSchedule     string `mapstructure:"default_schedule"`
	TimezoneOffsetHours int    `mapstructure:"timezone_offset_hours"`
	Locale              string `mapstructure:"locale"` // "en" or "pt-BR"
	Seed                int64  `mapstructure:"seed"`   // 0 = seeded from clock
}

// JitterConfig represents the jitter calibration, all values in minutes
type JitterConfig struct {
	OnTimeProbability  float64 `mapstructure:"on_time_probability"`
	ToleranceMaxDelay  int     `mapstructure:"tolerance_max_delay"`
	LateMinDelay       int     `mapstructure:"late_min_delay"`
	LateMaxDelay       int     `mapstructure:"late_max_delay"`
	MorningExitMin     int     `mapstructure:"morning_exit_min"`
	MorningExitMax     int     `mapstructure:"morning_exit_max"`
	MinMorningMinutes  int     `mapstructure:"min_morning_minutes"`
	LunchMin           int     `mapstructure:"lunch_min"`
	LunchMax           int     `mapstructure:"lunch_max"`
	DailyTargetMinutes int     `mapstructure:"daily_target_minutes"`
	TargetVariance     int     `mapstructure:"target_variance"`
}

// ScheduleConfig represents a custom schedule; clock values are "HH:MM"
type ScheduleConfig struct {
	ID             string `mapstructure:"id"`
	Name           string `mapstructure:"name"`
	MorningEntry   string `mapstructure:"morning_entry"`
	MorningExit    string `mapstructure:"morning_exit"`
	AfternoonEntry string `mapstructure:"afternoon_entry"`
	AfternoonExit  string `mapstructure:"afternoon_exit"`
}

// HolidaysConfig represents holiday sources
type HolidaysConfig struct {
	Dates    []string       `mapstructure:"dates"`
	File     string         `mapstructure:"file"`
	ICS      string         `mapstructure:"ics"` // path or http(s)/webcal URL
	IsDayOff IsDayOffConfig `mapstructure:"isdayoff"`
}

// IsDayOffConfig represents isdayoff.ru source configuration
type IsDayOffConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BaseURL     string `mapstructure:"base_url"`
	Country     string `mapstructure:"country"`
	FallbackURL string `mapstructure:"fallback_url"` // xmlcalendar.ru, {year} placeholder
	CacheTTL    string `mapstructure:"cache_ttl"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	WarmInterval   string   `mapstructure:"warm_interval"` // holiday cache warm-up period, "0" disables
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	rules := timesheet.DefaultJitterRules()

	v.SetDefault("timesheet.default_schedule", "")
	v.SetDefault("timesheet.timezone_offset_hours", -3)
	v.SetDefault("timesheet.locale", "en")
	v.SetDefault("timesheet.seed", 0)

	v.SetDefault("jitter.on_time_probability", rules.OnTimeProbability)
	v.SetDefault("jitter.tolerance_max_delay", rules.ToleranceMaxDelay)
	v.SetDefault("jitter.late_min_delay", rules.LateMinDelay)
	v.SetDefault("jitter.late_max_delay", rules.LateMaxDelay)
	v.SetDefault("jitter.morning_exit_min", rules.MorningExitMin)
	v.SetDefault("jitter.morning_exit_max", rules.MorningExitMax)
	v.SetDefault("jitter.min_morning_minutes", rules.MinMorningMinutes)
	v.SetDefault("jitter.lunch_min", rules.LunchMin)
	v.SetDefault("jitter.lunch_max", rules.LunchMax)
	v.SetDefault("jitter.daily_target_minutes", rules.DailyTargetMinutes)
	v.SetDefault("jitter.target_variance", rules.TargetVariance)

	v.SetDefault("holidays.isdayoff.enabled", false)
	v.SetDefault("holidays.isdayoff.base_url", "https://isdayoff.ru")
	v.SetDefault("holidays.isdayoff.fallback_url", "")
	v.SetDefault("holidays.isdayoff.cache_ttl", "24h")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.warm_interval", "6h")

	v.SetDefault("log.level", "info")
}

// Load loads configuration from file, environment (TIMESHEET_*) and defaults.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.timesheet-gen")
		v.AddConfigPath("/etc/timesheet-gen")
	}

	v.SetEnvPrefix("TIMESHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Timesheet.TimezoneOffsetHours < -12 || c.Timesheet.TimezoneOffsetHours > 14 {
		return fmt.Errorf("timesheet.timezone_offset_hours must be between -12 and 14")
	}

	j := c.Jitter
	if j.OnTimeProbability < 0 || j.OnTimeProbability > 1 {
		return fmt.Errorf("jitter.on_time_probability must be between 0 and 1")
	}
	if j.ToleranceMaxDelay < 0 {
		return fmt.Errorf("jitter.tolerance_max_delay must not be negative")
	}
	if j.LateMinDelay < 0 {
		return fmt.Errorf("jitter.late_min_delay must not be negative")
	}
	if j.LateMinDelay > j.LateMaxDelay {
		return fmt.Errorf("jitter.late_min_delay must not exceed jitter.late_max_delay")
	}
	if j.MorningExitMin > j.MorningExitMax {
		return fmt.Errorf("jitter.morning_exit_min must not exceed jitter.morning_exit_max")
	}
	if j.MinMorningMinutes <= 0 {
		return fmt.Errorf("jitter.min_morning_minutes must be positive")
	}
	if j.LunchMin <= 0 || j.LunchMin > j.LunchMax {
		return fmt.Errorf("jitter.lunch_min must be positive and not exceed jitter.lunch_max")
	}
	if j.TargetVariance < 0 || j.DailyTargetMinutes-j.TargetVariance <= 0 {
		return fmt.Errorf("jitter.daily_target_minutes minus jitter.target_variance must be positive")
	}

	if _, err := c.Catalog(); err != nil {
		return err
	}

	if c.Holidays.IsDayOff.Enabled && c.Holidays.IsDayOff.FallbackURL == "" {
		return fmt.Errorf("holidays.isdayoff.fallback_url is required when isdayoff is enabled")
	}
	if c.Holidays.IsDayOff.Enabled && c.Holidays.IsDayOff.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Holidays.IsDayOff.CacheTTL); err != nil {
			return fmt.Errorf("holidays.isdayoff.cache_ttl: %w", err)
		}
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	return nil
}

// JitterRules converts the jitter section
func (c *Config) JitterRules() timesheet.JitterRules {
	j := c.Jitter
	return timesheet.JitterRules{
		OnTimeProbability:  j.OnTimeProbability,
		ToleranceMaxDelay:  j.ToleranceMaxDelay,
		LateMinDelay:       j.LateMinDelay,
		LateMaxDelay:       j.LateMaxDelay,
		MorningExitMin:     j.MorningExitMin,
		MorningExitMax:     j.MorningExitMax,
		MinMorningMinutes:  j.MinMorningMinutes,
		LunchMin:           j.LunchMin,
		LunchMax:           j.LunchMax,
		DailyTargetMinutes: j.DailyTargetMinutes,
		TargetVariance:     j.TargetVariance,
	}
}

// Catalog builds the schedule catalog: custom schedules when configured,
// built-in presets otherwise. default_schedule, if set, is moved to the front.
func (c *Config) Catalog() (*timesheet.Catalog, error) {
	schedules := timesheet.DefaultSchedules()

	if len(c.Schedules) > 0 {
		schedules = make([]timesheet.WorkSchedule, 0, len(c.Schedules))
		for i, sc := range c.Schedules {
			s, err := sc.toSchedule()
			if err != nil {
				return nil, fmt.Errorf("schedules[%d]: %w", i, err)
			}
			schedules = append(schedules, s)
		}
	}

	if id := c.Timesheet.DefaultSchedule; id != "" {
		found := false
		for i, s := range schedules {
			if s.ID == id {
				schedules = append([]timesheet.WorkSchedule{s}, append(schedules[:i:i], schedules[i+1:]...)...)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("timesheet.default_schedule %q is not in the catalog", id)
		}
	}

	catalog, err := timesheet.NewCatalog(schedules, c.JitterRules())
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule catalog: %w", err)
	}
	return catalog, nil
}

func (sc ScheduleConfig) toSchedule() (timesheet.WorkSchedule, error) {
	s := timesheet.WorkSchedule{ID: sc.ID, Name: sc.Name}
	if s.Name == "" {
		s.Name = sc.ID
	}

	fields := []struct {
		raw string
		dst *timesheet.TimeOfDay
	}{
		{sc.MorningEntry, &s.MorningEntry},
		{sc.MorningExit, &s.MorningExit},
		{sc.AfternoonEntry, &s.AfternoonEntry},
		{sc.AfternoonExit, &s.AfternoonExit},
	}
	for _, f := range fields {
		tod, err := timesheet.ParseClock(f.raw)
		if err != nil {
			return timesheet.WorkSchedule{}, fmt.Errorf("%w: %v", timesheet.ErrInvalidSchedule, err)
		}
		*f.dst = tod
	}

	return s, nil
}

// Location returns the fixed-offset zone timesheets are generated in
func (c *TimesheetConfig) Location() *time.Location {
	return dateutil.FixedZone(c.TimezoneOffsetHours)
}

// GetCacheTTL returns cache TTL duration
func (c *IsDayOffConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetWarmInterval returns the holiday warm-up period; 0 disables warming
func (c *ServerConfig) GetWarmInterval() time.Duration {
	if c.WarmInterval == "" {
		return 6 * time.Hour
	}
	duration, err := time.ParseDuration(c.WarmInterval)
	if err != nil || duration < 0 {
		return 6 * time.Hour
	}
	return duration
}

// ExpandEnvVars expands environment variables in path and URL settings
func (c *Config) ExpandEnvVars() {
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Holidays.ICS = os.ExpandEnv(c.Holidays.ICS)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
