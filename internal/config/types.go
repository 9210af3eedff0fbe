package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName           string
	Port             string
	JWTSecret        string
	CookieSecure     bool
	SessionTTL       time.Duration
	ReminderInterval time.Duration
	Turso            TursoConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
