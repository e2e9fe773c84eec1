// Package config loads process configuration from a .env file (when
// present) and the environment, grounded on the teacher's
// cmd/goflow-migrate/main.go and internal/testutil/db.go pattern of
// godotenv.Load followed by os.Getenv reads with sensible fallbacks.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable setting the two binaries need.
type Config struct {
	HTTPPort         string
	DBDSN            string
	DispatchInterval time.Duration
	DefinitionsDir   string
	DefaultWorkflow  string
	LogLevel         string
}

// Load reads a .env file if present, then the environment, applying the
// same defaults the teacher's binaries use for unset DB_* vars.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		// No .env file is the common case outside local development; the
		// teacher's binaries log and continue rather than fail.
		fmt.Fprintf(os.Stderr, "no .env file found or failed to load: %v\n", err)
	}

	cfg := Config{
		HTTPPort:         getenv("HTTP_PORT", "8080"),
		DBDSN:            getenv("DB_DSN", buildDSNFromParts()),
		DefinitionsDir:   getenv("WORKFLOW_DEFINITIONS_DIR", "definitions"),
		DefaultWorkflow:  getenv("DEFAULT_WORKFLOW", "example_workflow"),
		LogLevel:         getenv("LOG_LEVEL", "INFO"),
		DispatchInterval: 2 * time.Second,
	}
	if v := os.Getenv("DISPATCH_INTERVAL_MS"); v != "" {
		if ms, err := time.ParseDuration(v + "ms"); err == nil {
			cfg.DispatchInterval = ms
		}
	}
	return cfg
}

func buildDSNFromParts() string {
	user := os.Getenv("DB_USERNAME")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if user == "" || pass == "" || host == "" || port == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
