// Package config loads and validates the engine's configuration: a plain
// struct tree tagged for koanf, populated in layers (defaults -> YAML file
// -> environment overrides) by loader.go.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration tree for the freight optimization engine.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	EventBus  EventBusConfig  `koanf:"event_bus"`
	Queue     QueueConfig     `koanf:"queue"`
	Engine    EngineConfig    `koanf:"engine"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Retry     RetryConfig     `koanf:"retry"`
	Report    ReportConfig    `koanf:"report"`
}

// AppConfig carries process-wide identity and environment.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig controls pkg/logger.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls pkg/metrics (Prometheus).
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig controls pkg/telemetry (OpenTelemetry).
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig controls pkg/database (postgres via pgx).
type DatabaseConfig struct {
	// Enabled selects Postgres-backed job/result/hub repositories over the
	// in-memory defaults. Off by default: the engine runs standalone unless
	// a Postgres instance is configured.
	Enabled         bool          `koanf:"enabled"`
	Driver          string        `koanf:"driver"` // postgres
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	MigrationsPath  string        `koanf:"migrations_path"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN returns a libpq-style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
	)
}

// CacheConfig controls pkg/cache, used for the predictor LRU cache (§4.B)
// and the hub nearest-neighbor cache (§4.C).
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EventBusConfig configures the Kafka-backed ingress/publisher adapter (§4.I/§4.H).
type EventBusConfig struct {
	Brokers            []string      `koanf:"brokers"`
	ConsumerGroup       string        `koanf:"consumer_group"`
	PositionsTopic      string        `koanf:"positions_topic"`
	LoadEventsTopic     string        `koanf:"load_events_topic"`
	ResultsTopic        string        `koanf:"results_topic"`
	WriteTimeout        time.Duration `koanf:"write_timeout"`
	ReadTimeout         time.Duration `koanf:"read_timeout"`
	CommitInterval      time.Duration `koanf:"commit_interval"`
}

// QueueConfig controls the job queue and worker pool (§4.G/§4.J).
type QueueConfig struct {
	MaxConcurrentJobs int           `koanf:"max_concurrent_jobs"`
	JobTimeout        time.Duration `koanf:"job_timeout"`
	QueueHighWaterMark int          `koanf:"queue_high_water_mark"`
	QueueLowWaterMark  int          `koanf:"queue_low_water_mark"`
	MaxRetryAttempts   int          `koanf:"max_retry_attempts"`
}

// EngineConfig gathers the algorithm-tuning options enumerated in spec §6.
type EngineConfig struct {
	OptimizationTriggerThresholdMeters float64       `koanf:"optimization_trigger_threshold_meters"`
	OptimizationTriggerCooldown        time.Duration `koanf:"optimization_trigger_cooldown"`
	PredictionCacheTTL                 time.Duration `koanf:"prediction_cache_ttl"`
	UsePredictionCache                 bool          `koanf:"use_prediction_cache"`
	DefaultConfidenceThreshold         float64       `koanf:"default_confidence_threshold"`
	MinHubDistanceMiles                float64       `koanf:"min_hub_distance_miles"`
	DefaultClusterEpsilonMiles         float64       `koanf:"default_cluster_epsilon_miles"`
	DefaultClusterMinPoints            int           `koanf:"default_cluster_min_points"`
	MaxRelaySegments                   int           `koanf:"max_relay_segments"`
	RelaySegmentSpeedMPH               float64       `koanf:"relay_segment_speed_mph"`
	RelaySegmentBufferFraction         float64       `koanf:"relay_segment_buffer_fraction"`
	MaxSegmentDistanceMiles            float64       `koanf:"max_segment_distance_miles"`
	MaxSegmentDurationHours            float64       `koanf:"max_segment_duration_hours"`
	RelayMinDistanceMiles              float64       `koanf:"relay_min_distance_miles"`
	RelayMinDurationHours              float64       `koanf:"relay_min_duration_hours"`
	LongHaulTriggerMiles               float64       `koanf:"long_haul_trigger_miles"`
}

// RateLimitConfig controls pkg/ratelimit, used for ingress backpressure (§5).
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Requests        int           `koanf:"requests"`
	Window          time.Duration `koanf:"window"`
	Strategy        string        `koanf:"strategy"`
	Backend         string        `koanf:"backend"`
	BurstSize       int           `koanf:"burst_size"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	RedisAddr       string        `koanf:"redis_addr"`
}

// RetryConfig controls dispatcher job-level retry with backoff (§4.J).
type RetryConfig struct {
	MaxAttempts       int           `koanf:"max_attempts"`
	InitialBackoff    time.Duration `koanf:"initial_backoff"`
	MaxBackoff        time.Duration `koanf:"max_backoff"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier"`
	JitterFraction    float64       `koanf:"jitter_fraction"`
}

// ReportConfig controls internal/reporting result exports (SPEC_FULL §12).
type ReportConfig struct {
	DefaultFormat string    `koanf:"default_format"` // csv, json, excel, pdf
	PDF           PDFConfig `koanf:"pdf"`
}

// PDFConfig controls the maroto-backed PDF generator.
type PDFConfig struct {
	PageSize    string `koanf:"page_size"` // A4, Letter
	Orientation string `koanf:"orientation"`
}

// Validate checks invariants the rest of the engine relies on.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Queue.MaxConcurrentJobs <= 0 {
		errs = append(errs, "queue.max_concurrent_jobs must be positive")
	}

	if c.Engine.DefaultClusterMinPoints <= 0 {
		errs = append(errs, "engine.default_cluster_min_points must be positive")
	}

	if c.Engine.MaxRelaySegments <= 1 {
		errs = append(errs, "engine.max_relay_segments must be greater than 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsDevelopment reports whether the app is running in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the app is running in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
