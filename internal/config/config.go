package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SearchModeLocal    = "local"
	SearchModeTemporal = "temporal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port               string
	CORSAllowedOrigins []string
	LogLevel           slog.Level

	// Temporal
	TemporalHost string
	SearchMode   string

	// Simulated upstream latency
	SearchDelayMin time.Duration
	SearchDelayMax time.Duration
	DetailsDelay   time.Duration

	// Generation
	CatalogFile string
	RandomSeed  int64
	Location    *time.Location
}

// Load loads configuration from environment variables, reading a .env file first when present
func Load() (*Config, error) {
	// optional for local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("API_PORT", "8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TemporalHost:       getEnv("TEMPORAL_HOST", "localhost:7233"),
		SearchMode:         strings.ToLower(getEnv("SEARCH_MODE", SearchModeLocal)),
		SearchDelayMin:     getEnvDuration("SEARCH_DELAY_MIN", time.Second),
		SearchDelayMax:     getEnvDuration("SEARCH_DELAY_MAX", 3*time.Second),
		DetailsDelay:       getEnvDuration("DETAILS_DELAY", 500*time.Millisecond),
		CatalogFile:        os.Getenv("CATALOG_FILE"),
		RandomSeed:         getEnvInt64("RANDOM_SEED", 0),
	}

	if cfg.SearchMode != SearchModeLocal && cfg.SearchMode != SearchModeTemporal {
		return nil, fmt.Errorf("unknown SEARCH_MODE %q (want %s or %s)", cfg.SearchMode, SearchModeLocal, SearchModeTemporal)
	}
	if cfg.SearchDelayMax < cfg.SearchDelayMin {
		return nil, fmt.Errorf("SEARCH_DELAY_MAX (%s) is shorter than SEARCH_DELAY_MIN (%s)", cfg.SearchDelayMax, cfg.SearchDelayMin)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("failed to load TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Now returns the current time in the configured location
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
