package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_DRIVER", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT",
		"TASKFLOW_API_URL", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" || cfg.DatabaseURL != "./taskflow.db" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Fatalf("log settings=%q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("timeouts=%v %v", cfg.RequestTimeout, cfg.ShutdownTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("warnings=%v", cfg.Warnings)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("TASKFLOW_API_URL", "http://tasks.local:9000/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REQUEST_TIMEOUT", "250ms")

	cfg := Load()
	if cfg.DBDriver != "pgx" || cfg.DatabaseURL != "postgres://localhost/tasks" {
		t.Fatalf("db=%q %q", cfg.DBDriver, cfg.DatabaseURL)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("format=%q", cfg.LogFormat)
	}
	if cfg.APIURL != "http://tasks.local:9000" {
		t.Fatalf("api url=%q", cfg.APIURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
	if cfg.RequestTimeout != 250*time.Millisecond {
		t.Fatalf("timeout=%v", cfg.RequestTimeout)
	}
}

func TestLoad_InvalidValuesWarn(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")

	cfg := Load()
	if cfg.LogFormat != "text" || cfg.RequestTimeout != 5*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if len(cfg.Warnings) != 3 {
		t.Fatalf("warnings=%v", cfg.Warnings)
	}
}
