package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for stockdesk
type Config struct {
	Env string

	API    APIConfig
	Import ImportConfig
	Server ServerConfig

	// DatabaseURL enables import history when set
	DatabaseURL string
	// RedisURL enables shared draft storage and the cross-process import lock
	RedisURL string
}

// APIConfig describes the REST backend
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ImportConfig tunes the import pipeline
type ImportConfig struct {
	// RatePerSecond caps create calls during an import. Zero means unlimited.
	RatePerSecond float64
}

// ServerConfig holds console-backend settings
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	DraftTTL       time.Duration
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// A missing .env is normal in production
	_ = godotenv.Load()

	timeout, err := getEnvAsDuration("STOCKDESK_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvAsFloat("IMPORT_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("IMPORT_RATE_LIMIT must not be negative, got %v", rateLimit)
	}

	draftTTL, err := getEnvAsDuration("DRAFT_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("STOCKDESK_API_URL", "https://products-api.zeabur.app"), "/"),
			Token:   strings.TrimSpace(getEnv("STOCKDESK_TOKEN", "")),
			Timeout: timeout,
		},
		Import: ImportConfig{
			RatePerSecond: rateLimit,
		},
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8080"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			DraftTTL:       draftTTL,
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
