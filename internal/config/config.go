// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach its backends.
type Config struct {
	// APIBaseURL is the NeuroSync backend root, e.g. https://api.example.com.
	APIBaseURL string `validate:"required,url"`

	// FirebaseAPIKey is the identity provider's web API key.
	FirebaseAPIKey string `validate:"required"`

	// DataDir holds the credential database.
	DataDir string `validate:"required"`

	// WatchDir is the drop folder for auto-upload; empty disables watching.
	WatchDir string

	// LogFile is where the rotating JSON log goes.
	LogFile string `validate:"required"`

	// Debug enables console debug logging.
	Debug bool
}

// Load reads .env (when present) and the NEUROSYNC_* environment variables.
func Load() (*Config, error) {
	// A missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	defaultBase := filepath.Join(home, ".neurosync")

	cfg := &Config{
		APIBaseURL:     getEnv("NEUROSYNC_API_URL", "http://localhost:8000"),
		FirebaseAPIKey: getEnv("NEUROSYNC_FIREBASE_API_KEY", ""),
		DataDir:        getEnv("NEUROSYNC_DATA_DIR", defaultBase),
		WatchDir:       getEnv("NEUROSYNC_WATCH_DIR", ""),
		LogFile:        getEnv("NEUROSYNC_LOG_FILE", filepath.Join(defaultBase, "neurosync.log")),
		Debug:          getBoolEnv("NEUROSYNC_DEBUG", false),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}
