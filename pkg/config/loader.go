package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "FREIGHT_"
	configEnvVar = "CONFIG_PATH"
)

// Loader assembles a Config from defaults, an optional YAML file, and
// environment variables, in that order of increasing priority.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader builds a Loader with the given options applied over sensible
// defaults: config.yaml, config/config.yaml and /etc/freightengine/config.yaml
// are tried in order, and env vars are read with the FREIGHT_ prefix.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/freightengine/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the list of candidate config file locations.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load resolves the configuration with priority, lowest first:
//  1. Defaults
//  2. Config file (YAML)
//  3. Environment variables
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		// A config file is optional; env and defaults can suffice.
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "freight-engine",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "logs/engine.log",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   true,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "freight",
		"metrics.subsystem": "engine",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "freight-engine",
		"tracing.sample_rate":  0.1,

		// Database
		"database.enabled":            false,
		"database.driver":             "postgres",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.database":           "freightengine",
		"database.username":           "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.migrations_path":    "migrations",
		"database.auto_migrate":       true,

		// Cache
		"cache.enabled":     true,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 10 * time.Minute,
		"cache.max_entries": 50000,

		// Event bus
		"event_bus.brokers":             []string{"localhost:9092"},
		"event_bus.consumer_group":      "freight-engine",
		"event_bus.positions_topic":     "driver.positions",
		"event_bus.load_events_topic":   "load.events",
		"event_bus.results_topic":       "optimization.results",
		"event_bus.write_timeout":       10 * time.Second,
		"event_bus.read_timeout":        10 * time.Second,
		"event_bus.commit_interval":     time.Second,

		// Queue
		"queue.max_concurrent_jobs":     8,
		"queue.job_timeout":             5 * time.Minute,
		"queue.queue_high_water_mark":   500,
		"queue.queue_low_water_mark":    100,
		"queue.max_retry_attempts":      3,

		// Engine / algorithm tuning (spec §6)
		"engine.optimization_trigger_threshold_meters": 500.0,
		"engine.optimization_trigger_cooldown":         2 * time.Minute,
		"engine.prediction_cache_ttl":                  10 * time.Minute,
		"engine.use_prediction_cache":                  true,
		"engine.default_confidence_threshold":          0.6,
		"engine.min_hub_distance_miles":                25.0,
		"engine.default_cluster_epsilon_miles":         15.0,
		"engine.default_cluster_min_points":            3,
		"engine.max_relay_segments":                    4,
		"engine.relay_segment_speed_mph":                55.0,
		"engine.relay_segment_buffer_fraction":          0.15,
		"engine.max_segment_distance_miles":             500.0,
		"engine.max_segment_duration_hours":             10.0,
		"engine.relay_min_distance_miles":                400.0,
		"engine.relay_min_duration_hours":                7.0,
		"engine.long_haul_trigger_miles":                 600.0,

		// Rate limit
		"rate_limit.enabled":          true,
		"rate_limit.requests":         200,
		"rate_limit.window":           time.Minute,
		"rate_limit.strategy":         "sliding_window",
		"rate_limit.backend":          "memory",
		"rate_limit.burst_size":       20,
		"rate_limit.cleanup_interval": 5 * time.Minute,

		// Retry
		"retry.max_attempts":       3,
		"retry.initial_backoff":    200 * time.Millisecond,
		"retry.max_backoff":        30 * time.Second,
		"retry.backoff_multiplier": 2.0,
		"retry.jitter_fraction":    0.2,

		// Report
		"report.default_format":   "json",
		"report.pdf.page_size":    "A4",
		"report.pdf.orientation":  "portrait",
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		// FREIGHT_QUEUE_MAX_CONCURRENT_JOBS -> queue.max_concurrent_jobs
		key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		for prefix, section := range map[string]string{
			"event_bus_":  "event_bus.",
			"rate_limit_": "rate_limit.",
			"report_pdf_": "report.pdf.",
		} {
			if strings.HasPrefix(key, prefix) {
				return section + strings.TrimPrefix(key, prefix)
			}
		}
		return strings.Replace(key, "_", ".", 1)
	}), nil)
}

// MustLoad loads the configuration or panics. Intended for process startup only.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load is a convenience function that loads configuration with default options.
func Load() (*Config, error) {
	return NewLoader().Load()
}
