package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds configuration for the savepoint tooling (CLI and helpers).
// The checkpoint core itself is configured purely through its construction
// options; nothing here leaks into pkg/checkpoint.
type Config struct {
	// Checkpoint file settings
	Checkpoint CheckpointConfig `yaml:"checkpoint" json:"checkpoint"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CheckpointConfig holds checkpoint file settings
type CheckpointConfig struct {
	Path      string        `yaml:"path" json:"path"`
	Format    string        `yaml:"format" json:"format"`
	Interval  time.Duration `yaml:"interval" json:"interval"`
	Encrypted bool          `yaml:"encrypted" json:"encrypted"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	path := "savepoint.json"
	if dir, err := DataDirectory(); err == nil {
		path = filepath.Join(dir, "savepoint.json")
	}
	return &Config{
		Checkpoint: CheckpointConfig{
			Path:     path,
			Format:   "json",
			Interval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("SAVEPOINT_CHECKPOINT_PATH"); path != "" {
		c.Checkpoint.Path = path
	}
	if format := os.Getenv("SAVEPOINT_CHECKPOINT_FORMAT"); format != "" {
		c.Checkpoint.Format = format
	}
	if interval := os.Getenv("SAVEPOINT_SAVE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid SAVEPOINT_SAVE_INTERVAL: %w", err)
		}
		c.Checkpoint.Interval = d
	}
	if encrypted := os.Getenv("SAVEPOINT_CHECKPOINT_ENCRYPTED"); encrypted != "" {
		c.Checkpoint.Encrypted = strings.ToLower(encrypted) == "true"
	}
	if logLevel := os.Getenv("SAVEPOINT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("SAVEPOINT_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
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
func (c *Config) findConfigFile() string {
	locations := []string{
		".savepoint.yaml",
		".savepoint.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "savepoint", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "savepoint", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".savepoint.yaml"),
		filepath.Join(os.Getenv("HOME"), ".savepoint.yml"),
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

	if c.Checkpoint.Path == "" {
		errs = append(errs, errors.New("checkpoint path is required"))
	}
	if c.Checkpoint.Interval <= 0 {
		errs = append(errs, errors.New("save interval must be positive"))
	}
	validFormats := map[string]bool{"json": true, "yaml": true}
	if !validFormats[strings.ToLower(c.Checkpoint.Format)] {
		errs = append(errs, errors.New("invalid checkpoint format"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
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

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".savepoint.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// DataDirectory returns the platform data directory for savepoint files
func DataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "savepoint")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "savepoint")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "savepoint")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "savepoint")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
