package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getDuration := func(key string, fallback time.Duration) time.Duration {
		if value, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(value); err == nil && d > 0 {
				return d
			}
			log.Warn("Invalid duration, using default", "key", key, "default", fallback)
		}
		return fallback
	}

	cfg := Config{
		DBName:           getEnv("DB_NAME"),
		Port:             getEnv("PORT"),
		JWTSecret:        getEnv("JWT_SECRET"),
		CookieSecure:     getEnvDefault("COOKIE_SECURE", "true") == "true",
		SessionTTL:       getDuration("SESSION_TTL", 30*24*time.Hour),
		ReminderInterval: getDuration("REMINDER_INTERVAL", time.Minute),
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
	}
	return cfg
}
