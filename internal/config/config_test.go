package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, ".llm-config", cfg.StoragePath)
				assert.Empty(t, cfg.EncryptionKey)
				assert.Equal(t, 100, cfg.CacheL1Size)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 100.0, cfg.RateLimitAuthenticatedPerSec)
				assert.Equal(t, 20.0, cfg.RateLimitUnauthenticatedPerSec)
				assert.Equal(t, 10, cfg.RateLimitBanThreshold)
				assert.Equal(t, 15*time.Minute, cfg.RateLimitBanDuration)
				assert.False(t, cfg.SecurityRequireTLS)
				assert.Equal(t, "1.2", cfg.SecurityMinTLSVersion)
				assert.Equal(t, int64(1048576), cfg.SecurityMaxRequestSize)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "llm_config", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom storage configuration",
			envVars: map[string]string{
				"LLM_CONFIG_STORAGE": "/var/lib/llm-config",
				"LLM_CONFIG_KEY":     "c2VjcmV0LWtleQ==",
				"CACHE_L1_SIZE":      "500",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/lib/llm-config", cfg.StoragePath)
				assert.Equal(t, "c2VjcmV0LWtleQ==", cfg.EncryptionKey)
				assert.Equal(t, 500, cfg.CacheL1Size)
			},
		},
		{
			name: "load custom rate limit configuration",
			envVars: map[string]string{
				"RATE_LIMIT_AUTHENTICATED_PER_SEC": "50.5",
				"RATE_LIMIT_BAN_THRESHOLD":         "3",
				"RATE_LIMIT_BAN_DURATION_MINUTES":  "60",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 50.5, cfg.RateLimitAuthenticatedPerSec)
				assert.Equal(t, 3, cfg.RateLimitBanThreshold)
				assert.Equal(t, time.Hour, cfg.RateLimitBanDuration)
			},
		},
		{
			name: "load security policy configuration",
			envVars: map[string]string{
				"SECURITY_REQUIRE_TLS":       "true",
				"SECURITY_BLOCKED_IPS":       "10.0.0.9,10.0.0.10",
				"SECURITY_MAX_REQUEST_SIZE":  "2048",
				"SECURITY_MAX_INPUT_LENGTH":  "256",
				"SECURITY_BLOCKED_ENDPOINTS": "/internal/*",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.SecurityRequireTLS)
				assert.Equal(t, "10.0.0.9,10.0.0.10", cfg.SecurityBlockedIPs)
				assert.Equal(t, int64(2048), cfg.SecurityMaxRequestSize)
				assert.Equal(t, 256, cfg.SecurityMaxInputLength)
				assert.Equal(t, "/internal/*", cfg.SecurityBlockedEndpoints)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			tt.validate(t, Load())
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{StoragePath: "/data"}
	assert.Equal(t, filepath.Join("/data", "cache"), cfg.CacheDir())
	assert.Equal(t, filepath.Join("/data", "audit.log"), cfg.AuditLogFile())

	cfg.CacheL2Path = "/fast/cache"
	cfg.AuditLogPath = "/logs/audit.log"
	assert.Equal(t, "/fast/cache", cfg.CacheDir())
	assert.Equal(t, "/logs/audit.log", cfg.AuditLogFile())
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
