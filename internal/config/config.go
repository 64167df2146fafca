package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"gte=1,lte=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"oneof=dev development staging prod production"`
	ServiceName string `validate:"required"`
	Version     string `validate:"required"`

	// StorePath is the shared SQLite store read by both the app process and
	// the OS monitoring extension.
	StorePath string `validate:"required"`

	// APIKey authenticates the UI layer against the local API.
	APIKey string `validate:"required"`

	DeadLetterPath string `validate:"required"`

	// DefaultSessionMinutes seeds the timer picker.
	DefaultSessionMinutes int `validate:"gte=1,lte=480"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		ServiceName:    getEnv("SERVICE_NAME", "astralis-core"),
		Version:        getEnv("VERSION", "dev"),
		StorePath:      getEnv("STORE_PATH", "astralis.db"),
		APIKey:         getEnv("API_KEY", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "events.deadletter.jsonl"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	minutes, err := getEnvInt("DEFAULT_SESSION_MINUTES", 25)
	if err != nil {
		return nil, err
	}
	cfg.DefaultSessionMinutes = minutes

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}
