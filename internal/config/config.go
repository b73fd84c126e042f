package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	WorkerCount        int
	TypingDelay        time.Duration
	TipInterval        time.Duration
	SessionTTL         time.Duration
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	MessageRate        float64
	MessageBurst       int

	// Bookable slot grid: opening/closing time-of-day and slot spacing.
	OpeningTime  string
	ClosingTime  string
	SlotInterval time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 2),
		TypingDelay:        getEnvAsDuration("TYPING_DELAY", 1200*time.Millisecond),
		TipInterval:        getEnvAsDuration("TIP_INTERVAL", 45*time.Second),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		MessageRate:        getEnvAsFloat("MESSAGE_RATE", 1),
		MessageBurst:       getEnvAsInt("MESSAGE_BURST", 5),
		OpeningTime:        getEnv("OPENING_TIME", "09:00"),
		ClosingTime:        getEnv("CLOSING_TIME", "18:00"),
		SlotInterval:       getEnvAsDuration("SLOT_INTERVAL", time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable into a slice.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
