// Package config provides CLI configuration management for the quantum
// command-line tool. It supports loading configuration from a YAML file and
// environment variables, with later sources overriding earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultBaseURL      = "http://localhost:8000/api"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 5 * time.Second
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".quantum"
	DefaultConfigFile   = "config.yaml"
	DefaultCacheFile    = "cache.db"
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// BaseURL is the base URL of the meeting intelligence API,
	// including the /api prefix.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration `yaml:"timeout"`

	// PollInterval is the interval for polling views such as
	// 'meeting transcript --follow'.
	PollInterval time.Duration `yaml:"poll_interval"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// BotName is the display name the transcription bot joins meetings with.
	BotName string `yaml:"bot_name,omitempty"`

	// Language is the default transcription language code.
	Language string `yaml:"language,omitempty"`

	// CachePath overrides the default location of the local results cache.
	CachePath string `yaml:"cache_path,omitempty"`

	// NoFallback disables the cache/fixture fallback when the API is
	// unreachable. Commands then fail instead of showing demo data.
	NoFallback bool `yaml:"no_fallback,omitempty"`

	// Debug enables verbose debug logging and metric output.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		OutputFormat: DefaultOutputFormat,
		BotName:      "Quantum AI Bot",
		Language:     "en",
	}
}

// ConfigDir returns the configuration directory path.
// Uses $QUANTUM_CONFIG_DIR if set, otherwise ~/.quantum
func ConfigDir() (string, error) {
	if dir := os.Getenv("QUANTUM_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// GetCachePath returns the path of the local results cache database.
func (c *CLIConfig) GetCachePath() (string, error) {
	if c.CachePath != "" {
		return expandPath(c.CachePath), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultCacheFile), nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
//  1. Default values
//  2. Config file (~/.quantum/config.yaml or $QUANTUM_CONFIG_DIR/config.yaml)
//  3. Environment variables (QUANTUM_BASE_URL, QUANTUM_TIMEOUT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Durations are stored as strings in YAML, so unmarshal via a temp struct.
	type configFile struct {
		BaseURL      string       `yaml:"base_url"`
		Timeout      string       `yaml:"timeout"`
		PollInterval string       `yaml:"poll_interval"`
		OutputFormat OutputFormat `yaml:"output_format"`
		BotName      string       `yaml:"bot_name"`
		Language     string       `yaml:"language"`
		CachePath    string       `yaml:"cache_path"`
		NoFallback   bool         `yaml:"no_fallback"`
		Debug        bool         `yaml:"debug"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.PollInterval != "" {
		interval, err := time.ParseDuration(fileCfg.PollInterval)
		if err != nil {
			return fmt.Errorf("parsing poll_interval: %w", err)
		}
		cfg.PollInterval = interval
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.BotName != "" {
		cfg.BotName = fileCfg.BotName
	}
	if fileCfg.Language != "" {
		cfg.Language = fileCfg.Language
	}
	if fileCfg.CachePath != "" {
		cfg.CachePath = fileCfg.CachePath
	}
	cfg.NoFallback = fileCfg.NoFallback
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("QUANTUM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("QUANTUM_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("QUANTUM_POLL_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = interval
		}
	}

	if v := os.Getenv("QUANTUM_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("QUANTUM_BOT_NAME"); v != "" {
		cfg.BotName = v
	}

	if v := os.Getenv("QUANTUM_LANGUAGE"); v != "" {
		cfg.Language = v
	}

	if v := os.Getenv("QUANTUM_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}

	if v := os.Getenv("QUANTUM_NO_FALLBACK"); v == "true" || v == "1" {
		cfg.NoFallback = true
	}

	if v := os.Getenv("QUANTUM_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://, got %q", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)

	type configFile struct {
		BaseURL      string       `yaml:"base_url"`
		Timeout      string       `yaml:"timeout"`
		PollInterval string       `yaml:"poll_interval"`
		OutputFormat OutputFormat `yaml:"output_format"`
		BotName      string       `yaml:"bot_name,omitempty"`
		Language     string       `yaml:"language,omitempty"`
		CachePath    string       `yaml:"cache_path,omitempty"`
		NoFallback   bool         `yaml:"no_fallback,omitempty"`
		Debug        bool         `yaml:"debug,omitempty"`
	}

	fileCfg := configFile{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout.String(),
		PollInterval: cfg.PollInterval.String(),
		OutputFormat: cfg.OutputFormat,
		BotName:      cfg.BotName,
		Language:     cfg.Language,
		CachePath:    cfg.CachePath,
		NoFallback:   cfg.NoFallback,
		Debug:        cfg.Debug,
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}
