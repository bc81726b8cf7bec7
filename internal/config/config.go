// Package config loads application configuration from the environment.
//
// CONFIGURATION PHILOSOPHY:
// Config is an immutable value struct, built once in main() and passed into
// constructors. No package-level singleton — code that needs a setting
// receives it explicitly, which makes every dependency visible and lets
// tests construct whatever config they want.
//
// SOURCES (in precedence order):
//  1. Real environment variables
//  2. A .env file in the working directory (loaded via godotenv; optional —
//     convenient for local development, absent in production)
//  3. Built-in defaults, except for SECRET_KEY which has no safe default
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-sourced setting the server needs.
type Config struct {
	Port                     int    // PORT — HTTP listen port
	DatabasePath             string // DATABASE_PATH — SQLite file, or ":memory:"
	SecretKey                string // SECRET_KEY — HMAC signing secret for JWTs (required)
	AccessTokenExpireMinutes int    // ACCESS_TOKEN_EXPIRE_MINUTES — token TTL
	Algorithm                string // ALGORITHM — JWT signing algorithm identifier
}

// TokenTTL returns the configured token lifetime as a time.Duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Load reads configuration from a .env file (if present) and the environment.
//
// godotenv.Load only SETS variables that aren't already in the environment,
// so real env vars always win over the .env file. A missing .env file is
// not an error — production deployments set variables directly.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                     getEnvAsInt("PORT", 8080),
		DatabasePath:             getEnv("DATABASE_PATH", "data/blog.db"),
		SecretKey:                getEnv("SECRET_KEY", ""),
		AccessTokenExpireMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		Algorithm:                getEnv("ALGORITHM", "HS256"),
	}

	// There is no sensible default for a signing secret — a hardcoded
	// fallback would mean every deployment that forgot to set it shares
	// the same key and can forge each other's tokens.
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("config: SECRET_KEY must be set (try: openssl rand -hex 32)")
	}
	if cfg.AccessTokenExpireMinutes <= 0 {
		return Config{}, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable, or fallback if unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt returns an environment variable parsed as an int, or fallback
// if the variable is unset or not a valid integer.
func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
