// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	// HTTP Server
	Port       string
	CORSOrigin string

	// Database
	DBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration
	AdminEmail    string
	BcryptCost    int

	// Logging
	LogLevel  string
	LogFormat string

	// BootstrapGroups are household names created at startup when no group exists yet.
	BootstrapGroups []string
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		DBPath: getEnv("DB_PATH", "./data/splitroom.db"),

		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		AdminEmail:    strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		BcryptCost:    getEnvInt("BCRYPT_COST", 0),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		BootstrapGroups: getEnvList("BOOTSTRAP_GROUPS"),
	}
}

// UsesDefaultSecret reports whether JWT_SECRET was left unset.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if len(c.JWTSecret) < 16 {
		errs = append(errs, "JWT secret must be at least 16 characters")
	}

	if c.TokenDuration < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid token duration %v: must be at least 1 minute", c.TokenDuration))
	}

	// bcrypt accepts 4..31; 0 selects the library default.
	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		errs = append(errs, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.BcryptCost))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// IsAdmin reports whether email belongs to the configured administrator.
// With no ADMIN_EMAIL set nobody is an administrator.
func (c *Config) IsAdmin(email string) bool {
	return c.AdminEmail != "" && strings.EqualFold(strings.TrimSpace(email), c.AdminEmail)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
