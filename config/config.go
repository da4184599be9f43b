// Package config provides configuration loading for the cubecad command.
//
// Values come from DefaultConfig, then an optional YAML file, then CUBECAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverSQLite   = "sqlite"
)

// Environment variables that override file values.
const (
	EnvDSN      = "CUBECAD_DSN"
	EnvDriver   = "CUBECAD_DB_DRIVER"
	EnvLogLevel = "CUBECAD_LOG_LEVEL"
	EnvMetrics  = "CUBECAD_METRICS"
)

// Metrics backends.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete cubecad configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Metrics  string         `yaml:"metrics"`
	// Catalog is the path of a catalog document; empty means the embedded default catalog.
	Catalog string `yaml:"catalog"`
}

// DatabaseConfig configures persistence
type DatabaseConfig struct {
	// Driver is one of postgres, pgx or sqlite
	Driver string `yaml:"driver"`
	// DSN is the connection string; empty keeps everything in memory
	DSN string `yaml:"dsn"`
	// MaxOpenConns caps database/sql connections (postgres only; sqlite always uses one)
	MaxOpenConns int `yaml:"max_open_conns"`
}

// LogConfig configures the slog logger
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			DSN:          "", // in memory
			MaxOpenConns: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsNone,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverPGX, DriverSQLite:
	default:
		return fmt.Errorf("%w: database.driver must be one of postgres, pgx, sqlite, got %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("%w: database.max_open_conns must be positive", ErrInvalidConfig)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}

	switch c.Metrics {
	case MetricsNone, MetricsPrometheus, MetricsOTel:
	default:
		return fmt.Errorf("%w: metrics must be one of none, prometheus, otel, got %q", ErrInvalidConfig, c.Metrics)
	}

	return nil
}

// Persistent reports whether a database is configured.
func (c *Config) Persistent() bool {
	return c.Database.DSN != ""
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load builds the effective configuration: defaults, the file at path when path is not
// empty, then environment overrides. The result is validated.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config.ApplyEnv(lookupEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides values with the CUBECAD_* variables lookupEnv finds.
// A nil lookupEnv means os.LookupEnv.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	if v, ok := lookupEnv(EnvDSN); ok {
		c.Database.DSN = v
	}
	if v, ok := lookupEnv(EnvDriver); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookupEnv(EnvMetrics); ok && v != "" {
		c.Metrics = v
	}
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
}

// NewLogger builds the configured slog logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
