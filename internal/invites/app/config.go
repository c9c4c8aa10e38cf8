package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AuthSecret string // Required: HMAC secret shared with the host platform
	AuthIssuer string // Optional: expected iss claim on bearer tokens

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./invites.db)
	DefaultInviteTTL     time.Duration // Optional: invite lifetime when the request omits one (default: 48h)
	MaxInviteTTL         time.Duration // Optional: upper bound on requested lifetimes (default: 30 days)
	DefaultMaxUses       int           // Optional: uses per invite when the request omits it (default: 1)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	HousekeepingGrace    time.Duration // How long expired invites stay queryable (default: 30 days)
}

var ErrMissingAuthSecret = errors.New("INVITES_AUTH_SECRET is required")

func LoadConfig() (Config, error) {
	cfg := Config{
		AuthSecret:           os.Getenv("INVITES_AUTH_SECRET"),
		AuthIssuer:           os.Getenv("INVITES_AUTH_ISSUER"),
		DatabaseFile:         getEnvOrDefault("INVITES_DATABASE_FILE", "invites.db"),
		DefaultInviteTTL:     getEnvDurationOrDefault("INVITES_DEFAULT_TTL", 48*time.Hour),
		MaxInviteTTL:         getEnvDurationOrDefault("INVITES_MAX_TTL", 30*24*time.Hour),
		DefaultMaxUses:       getEnvIntOrDefault("INVITES_DEFAULT_MAX_USES", 1),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
		HousekeepingGrace:    getEnvDurationOrDefault("HOUSEKEEPING_GRACE", 30*24*time.Hour),
	}

	if cfg.AuthSecret == "" {
		return Config{}, ErrMissingAuthSecret
	}

	return cfg, nil
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

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
