package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				App:    AppConfig{Name: "test-engine"},
				Log:    LogConfig{Level: "info"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 4},
			},
			wantErr: false,
		},
		{
			name: "missing app name",
			cfg: Config{
				Log:    LogConfig{Level: "info"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 4},
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			cfg: Config{
				App:    AppConfig{Name: "test"},
				Log:    LogConfig{Level: "invalid"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 4},
			},
			wantErr: true,
		},
		{
			name: "zero max concurrent jobs",
			cfg: Config{
				App:    AppConfig{Name: "test"},
				Log:    LogConfig{Level: "info"},
				Queue:  QueueConfig{MaxConcurrentJobs: 0},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 4},
			},
			wantErr: true,
		},
		{
			name: "zero cluster min points",
			cfg: Config{
				App:    AppConfig{Name: "test"},
				Log:    LogConfig{Level: "info"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 0, MaxRelaySegments: 4},
			},
			wantErr: true,
		},
		{
			name: "max relay segments too small",
			cfg: Config{
				App:    AppConfig{Name: "test"},
				Log:    LogConfig{Level: "info"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 1},
			},
			wantErr: true,
		},
		{
			name: "valid debug level",
			cfg: Config{
				App:    AppConfig{Name: "test"},
				Log:    LogConfig{Level: "debug"},
				Queue:  QueueConfig{MaxConcurrentJobs: 4},
				Engine: EngineConfig{DefaultClusterMinPoints: 3, MaxRelaySegments: 4},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"dev", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		cfg := &Config{App: AppConfig{Environment: tt.env}}
		assert.Equal(t, tt.want, cfg.IsDevelopment(), "env %s", tt.env)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"prod", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		cfg := &Config{App: AppConfig{Environment: tt.env}}
		assert.Equal(t, tt.want, cfg.IsProduction(), "env %s", tt.env)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "testdb",
		Username: "user",
		Password: "pass",
		SSLMode:  "disable",
	}

	expect := "host=localhost port=5432 user=user password=pass dbname=testdb sslmode=disable"
	assert.Equal(t, expect, cfg.DSN())
}

func TestCacheConfig_Address(t *testing.T) {
	cfg := CacheConfig{
		Host: "redis.local",
		Port: 6379,
	}

	assert.Equal(t, "redis.local:6379", cfg.Address())
}

func TestPDFConfig_Fields(t *testing.T) {
	cfg := PDFConfig{
		PageSize:    "A4",
		Orientation: "portrait",
	}

	assert.Equal(t, "A4", cfg.PageSize)
}
