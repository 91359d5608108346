package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingAPIKey = errors.New("API key not found. Please set the RAWG_API_KEY environment variable")
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	DefaultBaseURL          = "https://api.rawg.io/api"
	DefaultTimeoutSec       = 10
	MinTimeoutSec           = 1
	MaxTimeoutSec           = 300
	DefaultMaxResponseBytes = 10_000_000
)

type Config struct {
	RAWG          RAWGConfig
	Log           LogConfig
	DeveloperMode bool
}

type RAWGConfig struct {
	APIKey           string        `validate:"required"`
	BaseURL          string        `validate:"required,http_url"`
	Timeout          time.Duration `validate:"gte=1s,lte=300s"`
	MaxResponseBytes int64         `validate:"gt=0"`
}

type LogConfig struct {
	Level string
}

var validate = validator.New()

// Load reads the environment once. The result is treated as immutable.
func Load() (*Config, error) {
	cfg := &Config{
		RAWG: RAWGConfig{
			APIKey:           strings.TrimSpace(os.Getenv("RAWG_API_KEY")),
			BaseURL:          getEnvOrDefault("RAWG_BASE_URL", DefaultBaseURL),
			Timeout:          time.Duration(timeoutSeconds()) * time.Second,
			MaxResponseBytes: getEnvInt64OrDefault("MAX_RESPONSE_BYTES", DefaultMaxResponseBytes),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		DeveloperMode: getEnvBool("DEVELOPER_MODE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.RAWG.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Verbose reports whether debug diagnostics are on for this run.
func (c *Config) Verbose(debugFlag bool) bool {
	return c.DeveloperMode || debugFlag
}

// timeoutSeconds falls back to the default on non-numeric input and clamps
// everything else into [MinTimeoutSec, MaxTimeoutSec].
func timeoutSeconds() int {
	return clamp(getEnvIntOrDefault("REQUEST_TIMEOUT", DefaultTimeoutSec), MinTimeoutSec, MaxTimeoutSec)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "t":
		return true
	}
	return false
}
