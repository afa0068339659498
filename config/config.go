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
	Nemlig    NemligConfig
	Ollama    OllamaConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NemligConfig holds retailer API configuration
type NemligConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	SearchURL      string `mapstructure:"search_url"`
	DeliveryZoneID int    `mapstructure:"delivery_zone_id"`
	PageSize       int    `mapstructure:"page_size"`
}

// OllamaConfig holds inference engine configuration
type OllamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig holds report store configuration
type StoreConfig struct {
	ReportTTL time.Duration `mapstructure:"report_ttl"`
}

// RateLimitConfig holds rate limiting configuration for outbound retailer
// requests
type RateLimitConfig struct {
	NemligPerSecond float64 `mapstructure:"nemlig_per_second"`
	NemligBurst     int     `mapstructure:"nemlig_burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kurvpilot/")

	// Environment variable settings
	v.SetEnvPrefix("KURVPILOT")
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
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Nemlig defaults
	v.SetDefault("nemlig.base_url", "https://www.nemlig.com/webapi")
	v.SetDefault("nemlig.search_url", "https://webapi.prod.knl.nemlig.it/searchgateway/api/search")
	v.SetDefault("nemlig.delivery_zone_id", 1)
	v.SetDefault("nemlig.page_size", 20)

	// Ollama defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2:1b")
	v.SetDefault("ollama.timeout", "120s")

	// Store defaults
	v.SetDefault("store.report_ttl", "168h") // 7 days

	// Rate limit defaults
	v.SetDefault("ratelimit.nemlig_per_second", 2.0)
	v.SetDefault("ratelimit.nemlig_burst", 5)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Nemlig.BaseURL == "" {
		return fmt.Errorf("nemlig base URL is required (set KURVPILOT_NEMLIG_BASE_URL)")
	}

	if config.Nemlig.SearchURL == "" {
		return fmt.Errorf("nemlig search URL is required (set KURVPILOT_NEMLIG_SEARCH_URL)")
	}

	if config.Nemlig.PageSize <= 0 {
		return fmt.Errorf("nemlig page size must be positive, got: %d", config.Nemlig.PageSize)
	}

	if config.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama base URL is required (set KURVPILOT_OLLAMA_BASE_URL)")
	}

	if config.Ollama.Model == "" {
		return fmt.Errorf("ollama model is required (set KURVPILOT_OLLAMA_MODEL)")
	}

	return nil
}
