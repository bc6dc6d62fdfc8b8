// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults; Load layers file and env on top.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Store drivers understood by the repository layer.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// StoreDriver selects the record store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// DatabaseURL is the DSN for the sqlite or postgres driver.
	DatabaseURL string `koanf:"database_url"`

	// RedisURL enables event publication when set.
	RedisURL string `koanf:"redis_url"`

	// Seed loads the sample directory into an empty store at startup.
	Seed bool `koanf:"seed"`

	// CORSOrigins lists allowed browser origins, comma separated.
	CORSOrigins string `koanf:"cors_origins"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// StoreTimeoutMS bounds a single store call.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// UpdateRetries bounds read-merge-write attempts on version conflicts.
	UpdateRetries int `koanf:"update_retries"`

	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of event publisher workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StatsSchedule is the cron spec for refreshing store gauges.
	StatsSchedule string `koanf:"stats_schedule"`

	// TracingEnabled exports spans to stdout.
	TracingEnabled bool `koanf:"tracing_enabled"`

	// MetricsEnabled registers collectors on the /metrics registry.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels adds constant labels, as comma separated key=value pairs.
	MetricsLabels string `koanf:"metrics_labels"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":8000",
		StoreDriver:    DriverMemory,
		Seed:           true,
		CORSOrigins:    "http://localhost:3000",
		MaxBodyBytes:   1 << 20,
		StoreTimeoutMS: 2000,
		UpdateRetries:  3,
		EventQueueSize: 10_000,
		WorkerCount:    runtime.NumCPU(),
		DedupeSize:     50_000,
		StatsSchedule:  "@every 30s",

		MetricsEnabled:   true,
		MetricsNamespace: "launchcircle",
		MetricsSubsystem: "directory",
	}
}

// StoreTimeout returns StoreTimeoutMS as a duration.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ConstLabels parses MetricsLabels. Entries without a key are skipped.
func (c *Config) ConstLabels() map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(c.MetricsLabels, ",") {
		k, v, _ := strings.Cut(pair, "=")
		if k = strings.TrimSpace(k); k != "" {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}

// Validate checks the settings that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for store_driver %q", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.StoreTimeoutMS <= 0 {
		return fmt.Errorf("%w: store_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.UpdateRetries < 1 {
		return fmt.Errorf("%w: update_retries must be at least 1", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.MetricsNamespace) == "" {
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	if c.EventQueueSize <= 0 || c.WorkerCount <= 0 || c.DedupeSize <= 0 {
		return fmt.Errorf("%w: queue_size, worker_count and dedupe_size must be positive", ErrInvalidConfig)
	}
	return nil
}
