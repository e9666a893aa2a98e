package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the loader reads
const EnvPrefix = "IGPROFILE_"

// Config holds all configuration options for igprofile
type Config struct {
	// HTTP collaborator settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Pacing between requests and between usernames
	Delay DelayConfig `yaml:"delay" json:"delay"`

	// Retry behaviour for failed fetches
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Extraction pipeline ordering and options
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Which requests are issued and how many users run at once
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Report output
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds settings for talking to the profile site
type InstagramConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	AppID     string        `yaml:"app_id" json:"app_id"`
	ASBDID    string        `yaml:"asbd_id" json:"asbd_id"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// DelayConfig is the request-delay policy handed to the profiler
type DelayConfig struct {
	BetweenRequests time.Duration `yaml:"between_requests" json:"between_requests"`
	BetweenUsers    time.Duration `yaml:"between_users" json:"between_users"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// PipelineConfig controls strategy ordering inside the extraction pipeline
type PipelineConfig struct {
	// SourceOrder lists content kinds ("json", "html") in priority order
	SourceOrder []string `yaml:"source_order" json:"source_order"`
	// Strategies lists enabled strategies in priority order
	Strategies []string `yaml:"strategies" json:"strategies"`
	// EmbeddedScan selects boundary detection for embedded data: "minimal" or "balanced"
	EmbeddedScan string `yaml:"embedded_scan" json:"embedded_scan"`
}

// FetchConfig controls the requests issued per username
type FetchConfig struct {
	Concurrency int  `yaml:"concurrency" json:"concurrency"`
	Endpoints   bool `yaml:"endpoints" json:"endpoints"`
	Page        bool `yaml:"page" json:"page"`
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	Format    string `yaml:"format" json:"format"`
	Directory string `yaml:"directory" json:"directory"`
	File      string `yaml:"file" json:"file"`
	NoColor   bool   `yaml:"no_color" json:"no_color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			BaseURL:   "https://www.instagram.com",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			AppID:     "936619743392459",
			ASBDID:    "198387",
			Timeout:   10 * time.Second,
		},
		Delay: DelayConfig{
			BetweenRequests: 2 * time.Second,
			BetweenUsers:    3 * time.Second,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 2,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
			Multiplier:  2.0,
		},
		Pipeline: PipelineConfig{
			SourceOrder:  []string{"json", "html"},
			Strategies:   []string{"JSON_Endpoint", "SharedData", "MetaTags"},
			EmbeddedScan: "minimal",
		},
		Fetch: FetchConfig{
			Concurrency: 1,
			Endpoints:   true,
			Page:        true,
		},
		Output: OutputConfig{
			Format:    "text",
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "BASE_URL"); v != "" {
		c.Instagram.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Instagram.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "APP_ID"); v != "" {
		c.Instagram.AppID = v
	}
	if v := os.Getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Instagram.Timeout = d
		}
	}

	if v := os.Getenv(EnvPrefix + "REQUEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUEST_DELAY: %w", EnvPrefix, err))
		} else {
			c.Delay.BetweenRequests = d
		}
	}
	if v := os.Getenv(EnvPrefix + "USER_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sUSER_DELAY: %w", EnvPrefix, err))
		} else {
			c.Delay.BetweenUsers = d
		}
	}

	if v := os.Getenv(EnvPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err))
		} else if n > 0 {
			c.Fetch.Concurrency = n
		}
	}

	if v := os.Getenv(EnvPrefix + "SOURCE_ORDER"); v != "" {
		c.Pipeline.SourceOrder = splitList(v)
	}
	if v := os.Getenv(EnvPrefix + "EMBEDDED_SCAN"); v != "" {
		c.Pipeline.EmbeddedScan = v
	}

	if v := os.Getenv(EnvPrefix + "OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igprofile.yaml",
		".igprofile.yml",
		filepath.Join(home, ".config", "igprofile", "config.yaml"),
		filepath.Join(home, ".igprofile.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.BaseURL == "" {
		errs = append(errs, errors.New("instagram base URL is required"))
	}
	if c.Instagram.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Delay.BetweenRequests < 0 || c.Delay.BetweenUsers < 0 {
		errs = append(errs, errors.New("delays cannot be negative"))
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max retry attempts cannot be negative"))
	}

	if len(c.Pipeline.SourceOrder) == 0 {
		errs = append(errs, errors.New("pipeline source order cannot be empty"))
	}
	for _, kind := range c.Pipeline.SourceOrder {
		if kind != "json" && kind != "html" {
			errs = append(errs, fmt.Errorf("unknown source kind %q", kind))
		}
	}
	if len(c.Pipeline.Strategies) == 0 {
		errs = append(errs, errors.New("at least one extraction strategy is required"))
	}
	switch c.Pipeline.EmbeddedScan {
	case "minimal", "balanced":
	default:
		errs = append(errs, fmt.Errorf("invalid embedded scan mode %q", c.Pipeline.EmbeddedScan))
	}

	if c.Fetch.Concurrency <= 0 {
		errs = append(errs, errors.New("concurrency must be positive"))
	}
	if c.Fetch.Concurrency > 10 {
		errs = append(errs, errors.New("concurrency should not exceed 10"))
	}
	if !c.Fetch.Endpoints && !c.Fetch.Page {
		errs = append(errs, errors.New("at least one of fetch.endpoints or fetch.page must be enabled"))
	}

	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid output format %q", c.Output.Format))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.Instagram.BaseURL = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Instagram.Timeout = v
	}
	if v, ok := flags["request-delay"].(time.Duration); ok && v >= 0 {
		c.Delay.BetweenRequests = v
	}
	if v, ok := flags["user-delay"].(time.Duration); ok && v >= 0 {
		c.Delay.BetweenUsers = v
	}
	if v, ok := flags["concurrency"].(int); ok && v > 0 {
		c.Fetch.Concurrency = v
	}
	if v, ok := flags["max-retries"].(int); ok && v >= 0 {
		c.Retry.MaxAttempts = v
		c.Retry.Enabled = v > 0
	}
	if v, ok := flags["source-order"].([]string); ok && len(v) > 0 {
		c.Pipeline.SourceOrder = v
	}
	if v, ok := flags["embedded-scan"].(string); ok && v != "" {
		c.Pipeline.EmbeddedScan = v
	}
	if v, ok := flags["endpoints"].(bool); ok {
		c.Fetch.Endpoints = v
	}
	if v, ok := flags["page"].(bool); ok {
		c.Fetch.Page = v
	}
	if v, ok := flags["format"].(string); ok && v != "" {
		c.Output.Format = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.File = v
	}
	if v, ok := flags["no-color"].(bool); ok {
		c.Output.NoColor = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igprofile.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
