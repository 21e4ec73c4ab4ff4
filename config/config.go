package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"vpsboard/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	ListenAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Identity configuration
	JWTSecret string // HMAC secret shared with the identity provider

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Trigger worker configuration
	TriggerRetryInterval time.Duration // How often untriggered requests are republished

	// Rate guard configuration
	RateGuardWindow    time.Duration
	RateGuardThreshold int

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr: getEnvWithDefault("LISTEN_ADDR", ":8080"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		TriggerRetryInterval: 30 * time.Second,

		RateGuardWindow:    time.Minute,
		RateGuardThreshold: 10,

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "vpsboard"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: 60000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if interval := os.Getenv("TRIGGER_RETRY_INTERVAL_SECONDS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.TriggerRetryInterval = time.Duration(parsed) * time.Second
		}
	}
	if threshold := os.Getenv("RATE_GUARD_THRESHOLD"); threshold != "" {
		if parsed, err := strconv.Atoi(threshold); err == nil && parsed > 0 {
			config.RateGuardThreshold = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		ListenAddr:               ":0",
		JWTSecret:                "test-secret",
		TriggerRetryInterval:     30 * time.Second,
		RateGuardWindow:          time.Minute,
		RateGuardThreshold:       10,
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 60000,
	}
}
