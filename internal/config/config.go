package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver    string
	DatabaseURL string

	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// APIURL is where taskctl finds the server.
	APIURL string

	// Warnings lists variables that were set but unusable; defaults were
	// applied instead.
	Warnings []string
}

func Load() *Config {
	cfg := &Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DBDriver:    getenv("DB_DRIVER", "sqlite"),
		DatabaseURL: getenv("DATABASE_URL", "./taskflow.db"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "text")),
		APIURL:      strings.TrimRight(getenv("TASKFLOW_API_URL", "http://localhost:8080"), "/"),
	}

	cfg.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.RequestTimeout = cfg.duration("REQUEST_TIMEOUT", 5*time.Second)
	cfg.ShutdownTimeout = cfg.duration("SHUTDOWN_TIMEOUT", 10*time.Second)

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		cfg.warn("LOG_FORMAT", cfg.LogFormat)
		cfg.LogFormat = "text"
	}

	return cfg
}

func (c *Config) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		c.warn(key, raw)
		return fallback
	}
	return d
}

func (c *Config) warn(key, value string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is invalid, using default", key, value))
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
