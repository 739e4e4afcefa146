package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	Mode      string `yaml:"mode"` // "debug" or "release"
	StaticDir string `yaml:"static_dir"`

	// AllowedOrigins feeds the CORS middleware. Empty means allow all,
	// which is the right default for a local single-user dashboard.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxUploadBytes caps the size of an uploaded CSV. 0 applies the default.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

type AnalyticsConfig struct {
	// DefaultPageSize for the transactions view when the request omits one.
	DefaultPageSize int `yaml:"default_page_size"`
	// DefaultGranularity for the timeline, in time.ParseDuration syntax
	// (e.g. "1h", "15m").
	DefaultGranularity string `yaml:"default_granularity"`
}

const defaultMaxUploadBytes = 32 << 20 // 32 MiB

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Mode:           "debug",
			StaticDir:      "./web/dist",
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Analytics: AnalyticsConfig{
			DefaultPageSize:    20,
			DefaultGranularity: "1h",
		},
	}
}

// Load reads a YAML config, fills defaults for omitted fields and validates
// the result. Environment variables API_PORT and API_ENV override the file,
// matching how the server has always been deployed.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	c.applyDefaults()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = d.Server.Mode
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = d.Server.StaticDir
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = d.Server.MaxUploadBytes
	}
	if c.Analytics.DefaultPageSize == 0 {
		c.Analytics.DefaultPageSize = d.Analytics.DefaultPageSize
	}
	if c.Analytics.DefaultGranularity == "" {
		c.Analytics.DefaultGranularity = d.Analytics.DefaultGranularity
	}
}

func (c *Config) applyEnv() {
	if port := os.Getenv("API_PORT"); port != "" {
		c.Server.Port = port
	}
	if os.Getenv("API_ENV") == "production" {
		c.Server.Mode = "release"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("server.mode must be debug or release, got %q", c.Server.Mode)
	}
	if c.Analytics.DefaultPageSize <= 0 {
		return errors.New("analytics.default_page_size must be > 0")
	}
	if _, err := c.Granularity(); err != nil {
		return fmt.Errorf("analytics.default_granularity invalid: %w", err)
	}
	if c.Server.MaxUploadBytes < 0 {
		return errors.New("server.max_upload_bytes must be >= 0")
	}
	return nil
}

// Granularity parses the configured default timeline bucket width.
func (c *Config) Granularity() (time.Duration, error) {
	d, err := time.ParseDuration(c.Analytics.DefaultGranularity)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be > 0")
	}
	return d, nil
}
