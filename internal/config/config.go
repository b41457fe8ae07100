// Package config loads server configuration from the environment.
// A .env file in the working directory is honored for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration
}

// Load reads configuration from the environment, after loading .env if
// present. Missing keys fall back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// No .env is the normal case in production.
		slog.Debug("No .env file loaded", "error", err)
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/divvy.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.TokenDuration < time.Minute {
		return fmt.Errorf("invalid token duration %v: must be at least 1 minute", c.TokenDuration)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
