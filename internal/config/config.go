package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the churn prediction service.
type Config struct {
	HTTPPort      string
	ModelPath     string
	ModelURL      string
	ModelTimeout  time.Duration
	SchemaPath    string
	RequireSchema bool
	Environment   string
	LogLevel      string

	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// Load reads configuration from environment variables with defaults. A .env
// file in the working directory, if any, is loaded first; variables already
// set in the environment win. Only malformed values are reported here; call
// Validate once every override has been applied.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	requireSchema, err := getBool("REQUIRE_SCHEMA", false)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("MODEL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rps, err := getFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := getInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		ModelPath:      getEnv("MODEL_PATH", "model/churn_model.json"),
		ModelURL:       getEnv("MODEL_URL", ""),
		ModelTimeout:   timeout,
		SchemaPath:     getEnv("SCHEMA_PATH", "model/feature_schema.json"),
		RequireSchema:  requireSchema,
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail on first use.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return errors.New("config: HTTP_PORT is empty")
	}
	if c.ModelPath == "" && c.ModelURL == "" {
		return errors.New("config: one of MODEL_PATH or MODEL_URL is required")
	}
	if c.RequireSchema && c.SchemaPath == "" {
		return errors.New("config: REQUIRE_SCHEMA is set but SCHEMA_PATH is empty")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("config: rate limit must be positive, got %v rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
