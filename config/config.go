package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Commerce  CommerceConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CommerceConfig holds commerce collaborator configuration
type CommerceConfig struct {
	SearchBaseURL   string        `mapstructure:"search_base_url"`
	CheckoutBaseURL string        `mapstructure:"checkout_base_url"`
	APIKey          string        `mapstructure:"api_key"`
	SearchTimeout   time.Duration `mapstructure:"search_timeout"`
	CheckoutTimeout time.Duration `mapstructure:"checkout_timeout"`
}

// CartConfig holds cart engine configuration
type CartConfig struct {
	TaxRate       float64       `mapstructure:"tax_rate"`
	MaxCandidates int           `mapstructure:"max_candidates"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CatalogTTL    time.Duration `mapstructure:"catalog_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP    int `mapstructure:"per_ip"`
	Commerce int `mapstructure:"commerce"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/platewise/")

	// Environment variable settings
	v.SetEnvPrefix("PLATEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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

	// Commerce defaults
	v.SetDefault("commerce.search_base_url", "https://api.commerce.example.com/search")
	v.SetDefault("commerce.checkout_base_url", "https://api.commerce.example.com/checkout")
	// Empty default so Unmarshal sees the env-provided key
	v.SetDefault("commerce.api_key", "")
	v.SetDefault("commerce.search_timeout", "25s")
	v.SetDefault("commerce.checkout_timeout", "15s")

	// Cart defaults
	v.SetDefault("cart.tax_rate", 0.08)
	v.SetDefault("cart.max_candidates", 3)
	v.SetDefault("cart.session_ttl", "2h")
	v.SetDefault("cart.catalog_ttl", "15m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.commerce", 600)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Commerce.APIKey == "" {
		return fmt.Errorf("commerce API key is required (set PLATEWISE_COMMERCE_API_KEY)")
	}

	if config.Cart.TaxRate < 0 || config.Cart.TaxRate >= 1 {
		return fmt.Errorf("cart tax rate must be in [0, 1), got: %v", config.Cart.TaxRate)
	}

	if config.Cart.MaxCandidates < 1 {
		return fmt.Errorf("cart max candidates must be at least 1, got: %d", config.Cart.MaxCandidates)
	}

	return nil
}
