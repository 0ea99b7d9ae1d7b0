// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present, so local development does not need exported vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ycliang/transport-report/internal/domain"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CacheTTL is how long a full read of the record set is served from
	// memory before re-fetching. Zero disables the cache.
	// Set CACHE_TTL to a Go duration ("120s", "5m"). Defaults to 120s.
	CacheTTL time.Duration

	// AllowNegativeDistance permits submissions whose end odometer reading
	// is below the start reading. Defaults to false: such submissions are
	// rejected as validation errors.
	AllowNegativeDistance bool

	// Scoring holds the productivity formula weights
	// (SCORE_MILEAGE_WEIGHT, SCORE_CUSTOMER_WEIGHT; defaults 0.4/0.6).
	Scoring domain.ScoringPolicy

	// Bonus holds the payout rates per pallet, empty basket, and empty
	// pallet (BONUS_PALLET_RATE, BONUS_BASKET_RATE, BONUS_PLATE_RATE;
	// defaults 40/0.5/3).
	Bonus domain.BonusRates
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or
// naming the first variable that fails to parse.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Scoring:     domain.DefaultScoringPolicy,
		Bonus:       domain.DefaultBonusRates,
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 120*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AllowNegativeDistance, err = boolEnv("ALLOW_NEGATIVE_DISTANCE", false); err != nil {
		return Config{}, err
	}
	if cfg.Scoring.MileageWeight, err = floatEnv("SCORE_MILEAGE_WEIGHT", cfg.Scoring.MileageWeight); err != nil {
		return Config{}, err
	}
	if cfg.Scoring.CustomerWeight, err = floatEnv("SCORE_CUSTOMER_WEIGHT", cfg.Scoring.CustomerWeight); err != nil {
		return Config{}, err
	}
	if cfg.Bonus.PalletRate, err = floatEnv("BONUS_PALLET_RATE", cfg.Bonus.PalletRate); err != nil {
		return Config{}, err
	}
	if cfg.Bonus.BasketRate, err = floatEnv("BONUS_BASKET_RATE", cfg.Bonus.BasketRate); err != nil {
		return Config{}, err
	}
	if cfg.Bonus.PlateRate, err = floatEnv("BONUS_PLATE_RATE", cfg.Bonus.PlateRate); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// durationEnv parses an optional duration variable ("120s", "5m").
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// boolEnv parses an optional boolean variable ("true", "1", "false").
func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// floatEnv parses an optional float variable.
func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
