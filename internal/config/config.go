package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fleet_utilization/internal/models"
)

// Config holds all configuration for a report run
type Config struct {
	DB     DBConfig
	Report ReportConfig
	Engine EngineConfig
	Log    LogConfig
}

// DBConfig describes the maintenance database connection
type DBConfig struct {
	Driver       string
	DSN          string
	Schema       string
	MaxOpenConns int
}

// ReportConfig holds output settings
type ReportConfig struct {
	OutputDir string
}

// EngineConfig selects the engines and the data corrections applied to them
type EngineConfig struct {
	PartNumbers        []string
	HistoricalAircraft []string
	Exclusions         []Exclusion
}

// Exclusion drops bad install records. Empty fields match anything.
type Exclusion struct {
	AC          string `mapstructure:"ac"`
	SN          string `mapstructure:"sn"`
	InstallDate string `mapstructure:"install_date"`
}

// Date parses InstallDate. The zero time means any date.
func (e Exclusion) Date() (time.Time, error) {
	if e.InstallDate == "" {
		return time.Time{}, nil
	}
	return models.ParseTimestamp(e.InstallDate, false)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Known data-entry errors in the transaction history
var defaultExclusions = []map[string]string{
	{"ac": "N521VA", "install_date": "2006-04-04 00:00:00"},
	{"sn": "397549"},
	{"sn": "643151", "install_date": "2010-09-27 00:00:00"},
	{"sn": "643152", "install_date": "2010-09-27 00:00:00"},
}

// Load loads configuration from a .env file, config file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "maintenance.db")
	v.SetDefault("db.schema", "")
	v.SetDefault("db.max_open_conns", 4)
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("engine.part_numbers", []string{"1887M10G%", "2489M10G%"})
	v.SetDefault("engine.historical_aircraft", []string{"N631VA", "N634VA"})
	v.SetDefault("engine.exclusions", defaultExclusions)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/fleet_utilization")
	v.AddConfigPath(".")

	if configPath := os.Getenv("FLEET_UTIL_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read config file (if it exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLEET_UTIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DB: DBConfig{
			Driver:       v.GetString("db.driver"),
			DSN:          v.GetString("db.dsn"),
			Schema:       v.GetString("db.schema"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
		},
		Report: ReportConfig{
			OutputDir: v.GetString("report.output_dir"),
		},
		Engine: EngineConfig{
			PartNumbers:        v.GetStringSlice("engine.part_numbers"),
			HistoricalAircraft: v.GetStringSlice("engine.historical_aircraft"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := v.UnmarshalKey("engine.exclusions", &cfg.Engine.Exclusions); err != nil {
		return nil, fmt.Errorf("invalid engine.exclusions: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	validDrivers := map[string]bool{
		"sqlite3":  true,
		"postgres": true,
		"pgx":      true,
		"mysql":    true,
	}
	if !validDrivers[cfg.DB.Driver] {
		return fmt.Errorf("invalid db driver: %s (must be sqlite3, postgres, pgx or mysql)", cfg.DB.Driver)
	}

	if cfg.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required")
	}

	if cfg.DB.MaxOpenConns < 0 {
		return fmt.Errorf("db.max_open_conns must not be negative")
	}

	if len(cfg.Engine.PartNumbers) == 0 {
		return fmt.Errorf("engine.part_numbers must list at least one pattern")
	}

	for i, ex := range cfg.Engine.Exclusions {
		if ex.AC == "" && ex.SN == "" {
			return fmt.Errorf("engine.exclusions[%d] needs ac or sn", i)
		}
		if _, err := ex.Date(); err != nil {
			return fmt.Errorf("engine.exclusions[%d] install_date: %w", i, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
