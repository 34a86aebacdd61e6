package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Search    SearchConfig    `mapstructure:"search"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatasetConfig points at the product CSV
type DatasetConfig struct {
	URL              string        `mapstructure:"url"` // http(s) URL, file:// URL or local path
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	PlaceholderImage string        `mapstructure:"placeholder_image"`
}

// SearchConfig holds recommendation matching configuration
type SearchConfig struct {
	Threshold  float64       `mapstructure:"threshold"`
	MaxResults int           `mapstructure:"max_results"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	Debug      bool          `mapstructure:"debug"`
}

// AnalyticsConfig holds dashboard sizing
type AnalyticsConfig struct {
	CountryTopN int `mapstructure:"country_top_n"`
	BrandTopN   int `mapstructure:"brand_top_n"`
	ColorTopN   int `mapstructure:"color_top_n"`
	PageSize    int `mapstructure:"page_size"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory"
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// BreakerConfig holds the dataset fetch circuit breaker settings
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/furnaiture/")

	// FURNAITURE_DATASET_URL -> dataset.url
	v.SetEnvPrefix("FURNAITURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Keys without a default are only seen by Unmarshal when bound explicitly
	if err := v.BindEnv("dataset.url"); err != nil {
		return nil, fmt.Errorf("bind dataset url: %w", err)
	}

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Dataset defaults
	v.SetDefault("dataset.fetch_timeout", "30s")
	v.SetDefault("dataset.placeholder_image", "background7.jpg")

	// Search defaults
	v.SetDefault("search.threshold", 0.4)
	v.SetDefault("search.max_results", 6)
	v.SetDefault("search.cache_ttl", "10m")
	v.SetDefault("search.debug", false)

	// Analytics defaults
	v.SetDefault("analytics.country_top_n", 5)
	v.SetDefault("analytics.brand_top_n", 8)
	v.SetDefault("analytics.color_top_n", 8)
	v.SetDefault("analytics.page_size", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.sweep_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Breaker defaults
	v.SetDefault("breaker.max_failures", 3)
	v.SetDefault("breaker.open_timeout", "30s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Dataset.URL) == "" {
		return fmt.Errorf("dataset URL is required (set FURNAITURE_DATASET_URL)")
	}

	if config.Search.Threshold <= 0 || config.Search.Threshold > 1 {
		return fmt.Errorf("search threshold must be in (0, 1], got: %v", config.Search.Threshold)
	}

	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive, got: %d", config.Search.MaxResults)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// loadEnvFile exports KEY=VALUE lines from ./.env without overriding
// variables already set. A missing file is not an error.
func loadEnvFile() error {
	if err := gotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
