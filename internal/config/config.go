// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// StoragePath is the root directory for configuration and version files.
	StoragePath string
	// EncryptionKey is the base64-encoded 32-byte AES key for secret values.
	// Secret operations are disabled when empty.
	EncryptionKey string

	// CacheL1Size is the maximum number of entries in the in-memory cache.
	CacheL1Size int
	// CacheL2Path is the directory for the persistent cache tier. Defaults
	// to a "cache" directory under StoragePath when empty.
	CacheL2Path string

	// AuditLogPath is the audit log file. Defaults to "audit.log" under
	// StoragePath when empty.
	AuditLogPath string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitAuthenticatedPerSec is the global budget for authenticated requests.
	RateLimitAuthenticatedPerSec float64
	// RateLimitUnauthenticatedPerSec is the global budget for unauthenticated requests.
	RateLimitUnauthenticatedPerSec float64
	// RateLimitBurst is the burst size of the global budgets.
	RateLimitBurst int
	// RateLimitPerClientPerSec is the per-client address budget.
	RateLimitPerClientPerSec float64
	// RateLimitPerClientBurst is the per-client burst size.
	RateLimitPerClientBurst int
	// RateLimitBanThreshold is the violation count that triggers a ban.
	RateLimitBanThreshold int
	// RateLimitBanDuration is how long a banned client stays banned.
	RateLimitBanDuration time.Duration
	// RateLimitMaxClients caps the tracked client addresses.
	RateLimitMaxClients int

	// SecurityRequireTLS demands an https forwarded protocol on API routes.
	SecurityRequireTLS bool
	// SecurityMinTLSVersion is the minimum accepted TLS version (e.g., "1.2").
	SecurityMinTLSVersion string
	// SecurityBlockedIPs is a comma-separated list of blocked client addresses.
	SecurityBlockedIPs string
	// SecurityAllowedOrigins is a comma-separated Origin allow list; empty
	// allows any origin.
	SecurityAllowedOrigins string
	// SecurityBlockedEndpoints is a comma-separated list of blocked path patterns.
	SecurityBlockedEndpoints string
	// SecurityAllowedEndpoints is a comma-separated list of path patterns;
	// empty allows everything not blocked.
	SecurityAllowedEndpoints string
	// SecurityMaxRequestSize bounds request bodies in bytes.
	SecurityMaxRequestSize int64
	// SecurityMaxInputLength bounds each validated input string.
	SecurityMaxInputLength int
	// SecurityMaxSessionAge bounds how old an X-Session-Start timestamp may
	// be; zero disables the check.
	SecurityMaxSessionAge time.Duration

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Storage and encryption
		StoragePath:   env.GetString("LLM_CONFIG_STORAGE", ".llm-config"),
		EncryptionKey: env.GetString("LLM_CONFIG_KEY", ""),

		// Cache
		CacheL1Size: env.GetInt("CACHE_L1_SIZE", 100),
		CacheL2Path: env.GetString("CACHE_L2_PATH", ""),

		// Audit
		AuditLogPath: env.GetString("AUDIT_LOG_PATH", ""),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate limiting
		RateLimitAuthenticatedPerSec:   env.GetFloat64("RATE_LIMIT_AUTHENTICATED_PER_SEC", 100.0),
		RateLimitUnauthenticatedPerSec: env.GetFloat64("RATE_LIMIT_UNAUTHENTICATED_PER_SEC", 20.0),
		RateLimitBurst:                 env.GetInt("RATE_LIMIT_BURST", 50),
		RateLimitPerClientPerSec:       env.GetFloat64("RATE_LIMIT_PER_CLIENT_PER_SEC", 10.0),
		RateLimitPerClientBurst:        env.GetInt("RATE_LIMIT_PER_CLIENT_BURST", 20),
		RateLimitBanThreshold:          env.GetInt("RATE_LIMIT_BAN_THRESHOLD", 10),
		RateLimitBanDuration:           env.GetDuration("RATE_LIMIT_BAN_DURATION_MINUTES", 15, time.Minute),
		RateLimitMaxClients:            env.GetInt("RATE_LIMIT_MAX_CLIENTS", 10000),

		// Security policy
		SecurityRequireTLS:       env.GetBool("SECURITY_REQUIRE_TLS", false),
		SecurityMinTLSVersion:    env.GetString("SECURITY_MIN_TLS_VERSION", "1.2"),
		SecurityBlockedIPs:       env.GetString("SECURITY_BLOCKED_IPS", ""),
		SecurityAllowedOrigins:   env.GetString("SECURITY_ALLOWED_ORIGINS", ""),
		SecurityBlockedEndpoints: env.GetString("SECURITY_BLOCKED_ENDPOINTS", ""),
		SecurityAllowedEndpoints: env.GetString("SECURITY_ALLOWED_ENDPOINTS", ""),
		SecurityMaxRequestSize:   int64(env.GetInt("SECURITY_MAX_REQUEST_SIZE", 1048576)),
		SecurityMaxInputLength:   env.GetInt("SECURITY_MAX_INPUT_LENGTH", 4096),
		SecurityMaxSessionAge:    env.GetDuration("SECURITY_MAX_SESSION_AGE_MINUTES", 0, time.Minute),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "llm_config"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// CacheDir returns the L2 cache directory, derived from StoragePath unless
// overridden.
func (c *Config) CacheDir() string {
	if c.CacheL2Path != "" {
		return c.CacheL2Path
	}
	return filepath.Join(c.StoragePath, "cache")
}

// AuditLogFile returns the audit log path, derived from StoragePath unless
// overridden.
func (c *Config) AuditLogFile() string {
	if c.AuditLogPath != "" {
		return c.AuditLogPath
	}
	return filepath.Join(c.StoragePath, "audit.log")
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
