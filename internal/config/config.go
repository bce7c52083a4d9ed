package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/artifact-narrator/narrator/internal/locale"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "http://8.134.131.114"
	DefaultTimeout = 60 * time.Second
)

// Environment variables read by Load
const (
	EnvBaseURL = "NARRATOR_BASE_URL"
	EnvTimeout = "NARRATOR_TIMEOUT"
	EnvLocale  = "NARRATOR_LOCALE"
)

// Config is the client configuration
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Locale  locale.Locale `yaml:"locale"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Locale:  locale.Default,
	}
}

// Load builds a Config from defaults, then the YAML file at path (if any),
// then the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv(EnvLocale); v != "" {
		cfg.Locale = locale.Locale(v)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes the locale
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", c.BaseURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	l, err := locale.Parse(string(c.Locale))
	if err != nil {
		return err
	}
	c.Locale = l

	return nil
}
