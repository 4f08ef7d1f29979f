package service

import (
	"net/netip"
	"os"
	"strconv"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/middleware"
)

type Config struct {
	Port                 int           // HTTP server port (default: 8080)
	DatabaseFile         string        // SQLite file holding users and posts (default: data/blog.db)
	SessionDir           string        // Badger directory holding sessions (default: data/sessions)
	BackupDir            string        // Where "db backup" writes snapshots (default: data/backups)
	SessionTTL           time.Duration // Lifetime of a login session (default: 168h)
	SessionCookieName    string        // Name of the session cookie (default: blog_session)
	SessionCookieSecure  bool          // Mark the session cookie Secure (default: false)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Session store housekeeping interval (default: 10m)
	LoginRateLimit       middleware.RateLimitConfig
}

func LoadConfig() Config {
	requests := getEnvIntOrDefault("RATELIMIT_LOGIN_REQUESTS", 10)
	return Config{
		Port:                 getEnvIntOrDefault("PORT", 8080),
		DatabaseFile:         getEnvOrDefault("BLOG_DATABASE_FILE", "data/blog.db"),
		SessionDir:           getEnvOrDefault("BLOG_SESSION_DIR", "data/sessions"),
		BackupDir:            getEnvOrDefault("BLOG_BACKUP_DIR", "data/backups"),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", 7*24*time.Hour),
		SessionCookieName:    getEnvOrDefault("SESSION_COOKIE_NAME", "blog_session"),
		SessionCookieSecure:  getEnvBoolOrDefault("SESSION_COOKIE_SECURE", false),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 10*time.Minute),
		LoginRateLimit: middleware.RateLimitConfig{
			RequestsPerWindow: requests,
			Window:            time.Duration(getEnvIntOrDefault("RATELIMIT_LOGIN_WINDOW_SEC", 60)) * time.Second,
			Burst:             requests,
			TrustedProxies:    getEnvPrefixesOrDefault("TRUSTED_PROXIES", nil),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func getEnvPrefixesOrDefault(key string, defaultValue []netip.Prefix) []netip.Prefix {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if prefixes, err := middleware.ParseTrustedProxies(value); err == nil {
		return prefixes
	}

	return defaultValue
}
