package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Standard errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiter is the interface implemented by rate limiter backends.
type Limiter interface {
	// Allow reports whether a single request is permitted.
	Allow(ctx context.Context, key string) (bool, error)

	// AllowN reports whether n requests are permitted.
	AllowN(ctx context.Context, key string, n int) (bool, error)

	// Wait blocks until a request is permitted or ctx is done.
	Wait(ctx context.Context, key string) error

	// Reset clears accumulated usage for a key.
	Reset(ctx context.Context, key string) error

	// GetInfo returns the current limit state for a key.
	GetInfo(ctx context.Context, key string) (*LimitInfo, error)

	// Close releases the limiter's resources.
	Close() error
}

// LimitInfo describes the current state of a rate limit.
type LimitInfo struct {
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Config controls rate limiter construction.
type Config struct {
	// Requests is the number of requests allowed per window.
	Requests int `koanf:"requests"`

	// Window is the time window requests are counted over.
	Window time.Duration `koanf:"window"`

	// Strategy selects the memory backend's limiting algorithm: token_bucket,
	// or sliding_window for any other value. There is no fixed-window
	// algorithm, and the Redis backend always uses a sliding window.
	Strategy string `koanf:"strategy"`

	// KeyFunc selects how keys are derived: ip, user, method.
	KeyFunc string `koanf:"key_func"`

	// Backend selects the storage backend: memory, redis.
	Backend string `koanf:"backend"`

	// BurstSize is the token bucket burst allowance.
	BurstSize int `koanf:"burst_size"`

	// CleanupInterval is the background cleanup period for the memory backend.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// Redis connection settings
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// DefaultConfig returns sensible rate limiter defaults.
func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Strategy:        "sliding_window",
		KeyFunc:         "ip",
		Backend:         "memory",
		BurstSize:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

// New constructs a Limiter for the given configuration.
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case "redis":
		return NewRedisLimiter(cfg)
	case "memory", "":
		return NewMemoryLimiter(cfg), nil
	default:
		return NewMemoryLimiter(cfg), nil
	}
}

// KeyExtractor derives a rate-limit key from a method name and metadata.
type KeyExtractor func(ctx context.Context, method string, metadata map[string]string) string

// DefaultKeyExtractor derives a key from the caller's IP address.
func DefaultKeyExtractor(_ context.Context, _ string, metadata map[string]string) string {
	if ip, ok := metadata["x-forwarded-for"]; ok && ip != "" {
		return ip
	}
	if ip, ok := metadata["x-real-ip"]; ok && ip != "" {
		return ip
	}
	if peer, ok := metadata[":authority"]; ok {
		return peer
	}
	return "unknown"
}

// MethodKeyExtractor derives a key from the method/event-type name.
func MethodKeyExtractor(_ context.Context, method string, _ map[string]string) string {
	return method
}

// UserKeyExtractor derives a key from the caller's user/driver ID.
func UserKeyExtractor(ctx context.Context, method string, metadata map[string]string) string {
	if userID, ok := metadata["x-user-id"]; ok && userID != "" {
		return userID
	}
	return DefaultKeyExtractor(ctx, method, metadata)
}

// CompositeKeyExtractor combines several extractors into one key.
func CompositeKeyExtractor(extractors ...KeyExtractor) KeyExtractor {
	return func(ctx context.Context, method string, metadata map[string]string) string {
		var key string
		for _, ext := range extractors {
			key += ext(ctx, method, metadata) + ":"
		}
		return key
	}
}

// RateLimitedMethods holds per-method/event-type rate limit overrides.
type RateLimitedMethods struct {
	mu            sync.RWMutex
	methods       map[string]*Config
	defaultConfig *Config
}

// NewRateLimitedMethods constructs a RateLimitedMethods registry.
func NewRateLimitedMethods(defaultCfg *Config) *RateLimitedMethods {
	if defaultCfg == nil {
		defaultCfg = DefaultConfig()
	}
	return &RateLimitedMethods{
		methods:       make(map[string]*Config),
		defaultConfig: defaultCfg,
	}
}

// Set overrides the rate limit config for a method.
func (r *RateLimitedMethods) Set(method string, cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[method] = cfg
}

// Get returns the rate limit config for a method, falling back to the default.
func (r *RateLimitedMethods) Get(method string) *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.methods[method]; ok {
		return cfg
	}
	return r.defaultConfig
}
