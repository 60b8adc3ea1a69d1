package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultDBPath       = "./bidbuilder.db"
	defaultPort         = "8080"
	defaultMaxAttempts  = 3
	defaultRequestDelay = 500 * time.Millisecond
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	Env           string

	// CatalogURL is the remote catalog service root. Empty means no
	// remote catalog is configured and the bundled one is used.
	CatalogURL          string
	CatalogMaxAttempts  int
	CatalogRequestDelay time.Duration
}

// IsDev reports whether the app runs in development mode, where
// migrations are applied automatically at startup.
func (c Config) IsDev() bool {
	return c.Env != "production"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		DBPath:              os.Getenv("DB_PATH"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("APP_ENV"),
		CatalogURL:          os.Getenv("CATALOG_URL"),
		CatalogMaxAttempts:  intEnv("CATALOG_MAX_ATTEMPTS", defaultMaxAttempts),
		CatalogRequestDelay: durationEnvMS("CATALOG_DELAY_MS", defaultRequestDelay),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("warning: %s=%q is not a positive integer, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

func durationEnvMS(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		log.Printf("warning: %s=%q is not a positive integer, using %s", key, raw, fallback)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
