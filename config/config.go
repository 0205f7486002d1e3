// Package config loads settings for a PDP session from YAML, .env files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvResetDelay = "PDP_RESET_DELAY"
	EnvLogLevel   = "PDP_LOG_LEVEL"
	EnvCatalog    = "PDP_CATALOG"
	EnvCurrency   = "PDP_CURRENCY"
)

// Config holds all PDP configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Page     PageConfig     `yaml:"page"`
	Services ServicesConfig `yaml:"services"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CatalogConfig locates the product catalog and how prices are shown.
type CatalogConfig struct {
	Path           string `yaml:"path"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// PageConfig tunes page behaviour.
type PageConfig struct {
	ResetDelay string `yaml:"reset_delay"` // how long "Added" stays visible
}

// ServicesConfig tunes the in-memory services.
type ServicesConfig struct {
	BagLatency      string `yaml:"bag_latency"`
	ShippingLatency string `yaml:"shipping_latency"`
	FailBag         bool   `yaml:"fail_bag"`
	FailShipping    bool   `yaml:"fail_shipping"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console output instead of JSON
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:           "catalog.yaml",
			CurrencySymbol: "$",
		},
		Page: PageConfig{
			ResetDelay: "2s",
		},
		Services: ServicesConfig{
			BagLatency:      "500ms",
			ShippingLatency: "300ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file over the defaults, then applies
// overrides from envFiles and the environment. The process environment wins
// over envFiles. A missing config file or env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	dotenv := make(map[string]string)
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
		for k, v := range values {
			dotenv[k] = v
		}
	}

	cfg.applyEnvOverrides(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv(EnvResetDelay); v != "" {
		c.Page.ResetDelay = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvCatalog); v != "" {
		c.Catalog.Path = v
	}
	if v := getenv(EnvCurrency); v != "" {
		c.Catalog.CurrencySymbol = v
	}
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path not configured (set %s)", EnvCatalog)
	}
	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	d, err := time.ParseDuration(c.Page.ResetDelay)
	if err != nil {
		return fmt.Errorf("invalid reset delay %q: %w", c.Page.ResetDelay, err)
	}
	if d <= 0 {
		return fmt.Errorf("reset delay must be positive, got %s", d)
	}
	for name, v := range map[string]string{
		"bag latency":      c.Services.BagLatency,
		"shipping latency": c.Services.ShippingLatency,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return fmt.Errorf("invalid %s %q", name, v)
		}
	}
	return nil
}

// GetResetDelay returns the reset delay as a duration.
func (c *Config) GetResetDelay() time.Duration {
	d, err := time.ParseDuration(c.Page.ResetDelay)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// GetBagLatency returns the simulated bag latency. Zero means none.
func (c *Config) GetBagLatency() time.Duration {
	return parseOrZero(c.Services.BagLatency)
}

// GetShippingLatency returns the simulated shipping latency. Zero means none.
func (c *Config) GetShippingLatency() time.Duration {
	return parseOrZero(c.Services.ShippingLatency)
}

func parseOrZero(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
