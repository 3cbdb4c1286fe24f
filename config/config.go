package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	Host string
	Port string

	// DatabaseDriver is "postgres" or "sqlite3".
	DatabaseDriver string
	DatabaseURL    string

	// CheckSchedule is a cron spec (with seconds) for the periodic sweep.
	CheckSchedule string
	// ItemDelay is the politeness pause between two products in a sweep.
	ItemDelay    time.Duration
	FetchTimeout time.Duration
	UserAgent    string

	AllowedOrigins string
	RateLimit      float64 // requests per second per client

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	TelegramToken  string
	TelegramChatID int64

	DesktopNotifications bool
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getEnv("PORT", "8080"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:    getEnv("DATABASE_URL", "pricetracker.db"),

		CheckSchedule: getEnv("CHECK_SCHEDULE", "0 0 * * * *"), // hourly
		ItemDelay:     getEnvDuration("ITEM_DELAY", 2*time.Second),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		UserAgent:     getEnv("USER_AGENT", defaultUserAgent),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimit:      getEnvFloat("RATE_LIMIT", 5),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		FromEmail: getEnv("FROM_EMAIL", ""),

		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		DesktopNotifications: getEnvBool("DESKTOP_NOTIFICATIONS", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
