// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Mock     MockConfig
	Session  SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects the gorm driver backing the invoice fixture.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev      bool
	PageSize int
}

// MockConfig holds the simulated latencies of the invoice service.
type MockConfig struct {
	FetchLatency time.Duration
	PayLatency   time.Duration
}

// SessionConfig holds the screen-session cookie settings.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

const defaultSQLiteDSN = "file:facturas?mode=memory&cache=shared"

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	driver := getEnv("DB_DRIVER", "sqlite")
	dsn := os.Getenv("DB_DSN")
	if dsn == "" && driver == "sqlite" {
		dsn = defaultSQLiteDSN
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver: driver,
			DSN:    dsn,
		},
		App: AppConfig{
			Dev:      getEnvBool("DEV", true),
			PageSize: getEnvInt("PAGE_SIZE", 4),
		},
		Mock: MockConfig{
			FetchLatency: getEnvDuration("MOCK_FETCH_LATENCY", 700*time.Millisecond),
			PayLatency:   getEnvDuration("MOCK_PAY_LATENCY", 600*time.Millisecond),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "devsessionsecret"),
			TTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses values such as "700ms" or "2s"; a bare integer is read as milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
