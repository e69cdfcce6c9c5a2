package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Redis configuration (quote cache); empty disables caching
	RedisAddr string

	// Quote provider configuration
	QuoteAPIURL   string
	QuoteAPIKey   string
	QuoteTimeout  time.Duration
	QuoteCacheTTL time.Duration

	// Auth configuration
	JWTSecret string

	// Cash balance granted to every new account
	StartingCash decimal.Decimal

	// HTTP server
	ListenAddr string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		QuoteAPIURL: os.Getenv("QUOTE_API_URL"),
		QuoteAPIKey: os.Getenv("QUOTE_API_KEY"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		Environment: os.Getenv("ENVIRONMENT"),

		// Defaults
		QuoteTimeout:  5 * time.Second,
		QuoteCacheTTL: 5 * time.Minute,
		StartingCash:  decimal.NewFromInt(10000),
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("QUOTE_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			config.QuoteTimeout = parsed
		}
	}
	if ttl := os.Getenv("QUOTE_CACHE_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			config.QuoteCacheTTL = parsed
		}
	}
	if cash := os.Getenv("STARTING_CASH"); cash != "" {
		if parsed, err := decimal.NewFromString(cash); err == nil && parsed.IsPositive() {
			config.StartingCash = parsed
		}
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
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
		if config.QuoteAPIURL == "" {
			return nil, fmt.Errorf("QUOTE_API_URL is required")
		}
	}

	return config, nil
}
