// File: /config/config.go
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	MapboxToken string

	// Road routing
	MapboxBaseURL  string
	RoutingTimeout int // seconds

	// Stale tracking sessions are force-closed after this many minutes
	SessionMaxIdleMinutes int

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	routingTimeout, _ := strconv.Atoi(getEnv("ROUTING_TIMEOUT_SECONDS", "8"))
	maxIdle, _ := strconv.Atoi(getEnv("SESSION_MAX_IDLE_MINUTES", "120"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/fitpulse?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		MapboxToken: getEnv("MAPBOX_TOKEN", "your-mapbox-token"),

		MapboxBaseURL:  getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		RoutingTimeout: routingTimeout,

		SessionMaxIdleMinutes: maxIdle,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@fitpulse.app"),
		FromName:     getEnv("FROM_NAME", "FitPulse"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
