// Package config reads the server configuration from environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSecretLength is the shortest JWT_SECRET accepted.
const MinSecretLength = 16

// Config centralises runtime configuration.
type Config struct {
	Port             int
	DBPath           string
	DirectoryURL     string
	DirectoryTimeout time.Duration
	DirectoryEnabled bool
	CatalogDelay     time.Duration
	// CatalogFile is an optional YAML catalog replacing the built-in one.
	CatalogFile string
	JWTSecret   string
	// GeneratedSecret is true when JWT_SECRET was unset and a random secret
	// was made up for this process. Sessions then do not survive a restart.
	GeneratedSecret bool
	BcryptCost      int
	LogLevel        slog.Level
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:             getIntEnv("PORT", 8080),
		DBPath:           getEnv("DB_PATH", "data/sportify.db"),
		DirectoryURL:     getEnv("DIRECTORY_URL", "https://dummyjson.com"),
		DirectoryTimeout: getDurationEnv("DIRECTORY_TIMEOUT", 10*time.Second),
		DirectoryEnabled: getBoolEnv("DIRECTORY_ENABLED", true),
		CatalogDelay:     getDurationEnv("CATALOG_DELAY", time.Second),
		CatalogFile:      getEnv("CATALOG_FILE", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		BcryptCost:       getIntEnv("BCRYPT_COST", 12),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "debug"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	switch {
	case cfg.JWTSecret == "":
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("config: generating JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedSecret = true
	case len(cfg.JWTSecret) < MinSecretLength:
		return Config{}, fmt.Errorf("config: JWT_SECRET must be at least %d characters", MinSecretLength)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

// getDurationEnv accepts Go durations ("1500ms") and plain seconds ("10").
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return fallback
}
