// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every runtime parameter of the service. Values come from
// environment variables with local-development defaults.
type Config struct {
	Port string

	// DBDriver selects the storage backend: "sqlite" or "postgres".
	DBDriver    string
	DBPath      string // sqlite file path
	DatabaseURL string // postgres connection string
	SeedPath    string

	// OSRMBaseURL is the routing backend; empty disables it and every
	// distance falls back to great-circle estimates.
	OSRMBaseURL string

	// RedisAddr enables the shared distance-matrix cache; empty disables it.
	RedisAddr     string
	RedisPassword string
	MatrixTTL     time.Duration

	PlanBudget   time.Duration
	DayStartHour int
	DayEndHour   int
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:          Get("PORT", "8080"),
		DBDriver:      Get("DB_DRIVER", "sqlite"),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		SeedPath:      Get("SEED_PATH", "data/seeds/pois.json"),
		OSRMBaseURL:   Get("OSRM_BASE_URL", ""),
		RedisAddr:     Get("REDIS_ADDR", ""),
		RedisPassword: Get("REDIS_PASSWORD", ""),
		MatrixTTL:     getDuration("MATRIX_CACHE_TTL", 24*time.Hour),
		PlanBudget:    getDuration("PLAN_BUDGET", 20*time.Second),
		DayStartHour:  getInt("DAY_START_HOUR", 9),
		DayEndHour:    getInt("DAY_END_HOUR", 19),
	}
}

// Get returns the environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
