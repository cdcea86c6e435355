package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all environment-driven application settings.
type Config struct {
	AppName    string
	Env        string
	Version    string
	ServerPort string

	// Database
	DBDriver   string // "mysql", "postgres" or "sqlite"
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBPath     string // sqlite file path

	// Auth
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	CORSEnabled        bool
	CORSAllowedOrigins []string

	// Maintenance
	DocumentRetentionDays int
}

// NewConfig assembles the configuration from environment variables with
// development-friendly defaults.
func NewConfig() *Config {
	return &Config{
		AppName:    getEnv("APP_NAME", "Markdown Manager"),
		Env:        getEnv("ENV", "development"),
		Version:    getEnv("APP_VERSION", "1.0.0"),
		ServerPort: normalizePort(getEnv("SERVER_PORT", ":8100")),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "markdown_manager"),
		DBUser:     getEnv("DB_USER", "markdown_user"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBPath:     getEnv("DB_PATH", "storage/markdown.db"),

		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),

		CORSEnabled:        getEnvBool("CORS_ENABLED", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),

		DocumentRetentionDays: getEnvInt("DOCUMENT_RETENTION_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalizePort ensures the port carries a leading colon.
func normalizePort(port string) string {
	if port == "" {
		return ":8100"
	}
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
