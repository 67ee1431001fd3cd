package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: HS256 signing secret for session and access tokens

	DatabaseFile  string // Optional: path to SQLite database file (default: ./accounts.db)
	RedisURL      string // Optional: Redis connection URL (default: redis://localhost:6379/0)
	VerifyBaseURL string // Optional: public URL of the verification endpoint

	TurnstileSecret string // Optional: Turnstile site secret; empty disables captcha checks
	SMTPURL         string // Optional: SMTP relay URL; empty routes mail to the log
	FromMailbox     string // Optional: From address for outbound mail

	SessionTTL time.Duration // Optional: session token lifetime (default: 30m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 90 days)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret: os.Getenv("ACCOUNTS_JWT_SECRET"),

		DatabaseFile:  getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),
		RedisURL:      getEnvOrDefault("ACCOUNTS_REDIS_URL", "redis://localhost:6379/0"),
		VerifyBaseURL: getEnvOrDefault("ACCOUNTS_VERIFY_BASE_URL", "http://localhost:8080/v0/verify"),

		TurnstileSecret: os.Getenv("TURNSTILE_SECRET_KEY"),
		SMTPURL:         os.Getenv("SMTP_URL"),
		FromMailbox:     os.Getenv("FROM_MAILBOX"),

		SessionTTL: getEnvDurationOrDefault("ACCOUNTS_SESSION_TTL", 30*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("ACCOUNTS_REFRESH_TTL", 90*24*time.Hour),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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
