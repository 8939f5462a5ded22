package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MacaulyV/foodbridge/internal/logging"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Base URLs used when APIBaseURL is not set.
const (
	DevelopmentBaseURL = "http://localhost:3000"
	ProductionBaseURL  = "https://api.foodbridge.app"
)

// Config holds runtime settings for the FoodBridge CLI.
type Config struct {
	APIBaseURL          string
	Environment         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DataDir             string
	LogLevel            string
	LogFormat           logging.Format
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.Environment = EnvProduction
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = defaultDataDir()
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "foodbridge")
	}
	return ".foodbridge"
}

// IsDevelopment reports whether debug request logging should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// BaseURL returns APIBaseURL, or the environment's default when it is empty.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.IsDevelopment() {
		return DevelopmentBaseURL
	}
	return ProductionBaseURL
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "foodbridge.db")
}

func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is empty")
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoadConfig constructs a Config from args (without the program name),
// applying defaults, then the environment, JSON and flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
