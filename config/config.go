package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names accepted in STORE_BACKEND
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendNATS     = "nats"
	BackendPostgres = "postgres"
)

// Config holds the process settings
type Config struct {
	Port        string
	Backend     string
	StorePath   string
	NATSURL     string
	NATSBucket  string
	DatabaseURL string
	Debug       bool
}

// Load merges envFiles (when present) into the environment and reads the
// configuration from it. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:        getenv("APP_PORT", "7777"),
		Backend:     getenv("STORE_BACKEND", BackendFile),
		StorePath:   getenv("STORE_PATH", "./data/cardcounter.json"),
		NATSURL:     getenv("NATS_URL", "nats://127.0.0.1:4222"),
		NATSBucket:  getenv("NATS_BUCKET", "cardcounter"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if raw := os.Getenv("DEBUG"); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("APP_PORT %q is not a port number", cfg.Port)
	}

	switch cfg.Backend {
	case BackendFile, BackendMemory, BackendNATS:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
