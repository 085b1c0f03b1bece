// Package config loads, validates and saves the CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides the configured API key when set.
const EnvAPIKey = "POLYGLOT_API_KEY"

// Config is the on-disk configuration schema.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Request  RequestConfig  `yaml:"request"`
	Batch    BatchConfig    `yaml:"batch"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// APIConfig configures the service connection.
type APIConfig struct {
	Key     string `yaml:"key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// CacheConfig configures the local translation cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path,omitempty"` // Default: <config dir>/cache.db
	MaxSize    int64  `yaml:"max_size"`       // Bytes
	TTLSeconds int    `yaml:"ttl"`            // 0 disables expiry
}

// RequestConfig configures the request executor.
type RequestConfig struct {
	TimeoutSeconds int `yaml:"timeout"`     // Per-attempt bound
	MaxRetries     int `yaml:"max_retries"` // 0 disables retries
}

// BatchConfig configures file batch runs.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultsConfig holds default translation parameters.
type DefaultsConfig struct {
	TargetLang string `yaml:"target_lang,omitempty"`
	SourceLang string `yaml:"source_lang,omitempty"`
	Formality  string `yaml:"formality,omitempty"`
	ModelType  string `yaml:"model_type,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:    true,
			MaxSize:    100 << 20,
			TTLSeconds: 30 * 24 * 60 * 60, // 30 days
		},
		Request: RequestConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		Batch: BatchConfig{
			Concurrency: 5,
		},
	}
}

// Dir returns the configuration directory, creating nothing.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locating config dir: %w", err)
	}
	return filepath.Join(base, "polyglot"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration file, returning defaults when it is absent.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a configuration file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration to the default path, creating the directory
// if needed.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to an explicit path.
func (c Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}

	// 0600: the file may hold the API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges on the numeric knobs.
func (c Config) Validate() error {
	if c.Cache.MaxSize < 0 {
		return errors.New("config: cache.max_size must not be negative")
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.New("config: cache.ttl must not be negative")
	}
	if c.Request.TimeoutSeconds < 0 {
		return errors.New("config: request.timeout must not be negative")
	}
	if c.Request.MaxRetries < 0 {
		return errors.New("config: request.max_retries must not be negative")
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 100 {
		return fmt.Errorf("config: batch.concurrency must be between 1 and 100, got %d", c.Batch.Concurrency)
	}
	return nil
}

// APIKey returns the API key, preferring the environment over the file.
func (c Config) APIKey() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return c.API.Key
}

// CachePath returns the cache database path, defaulting into the config dir.
func (c Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RequestTimeout returns the per-attempt timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Request.TimeoutSeconds) * time.Second
}

// Set assigns a configuration value by its dotted key, as used by the
// `config set` command.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api.key":
		c.API.Key = value
	case "api.base_url":
		c.API.BaseURL = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %s expects a boolean: %w", key, err)
		}
		c.Cache.Enabled = b
	case "cache.path":
		c.Cache.Path = value
	case "cache.max_size":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s expects bytes: %w", key, err)
		}
		c.Cache.MaxSize = n
	case "cache.ttl":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s expects seconds: %w", key, err)
		}
		c.Cache.TTLSeconds = n
	case "request.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s expects seconds: %w", key, err)
		}
		c.Request.TimeoutSeconds = n
	case "request.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s expects an integer: %w", key, err)
		}
		c.Request.MaxRetries = n
	case "batch.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("config: %s expects an integer: %w", key, err)
		}
		c.Batch.Concurrency = n
	case "defaults.target_lang":
		c.Defaults.TargetLang = value
	case "defaults.source_lang":
		c.Defaults.SourceLang = value
	case "defaults.formality":
		c.Defaults.Formality = value
	case "defaults.model_type":
		c.Defaults.ModelType = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
	return c.Validate()
}
