// Package config provides configuration management for the clipsaver service.
// It handles loading, validating, and saving application settings. The package
// supports YAML configuration files and provides sensible defaults so the
// service runs without any configuration file at all.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clipsaver/clipsaver/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	// General service settings
	Settings Settings `yaml:"settings"`

	// Retrieval settings for the video downloader
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Settings represents general application settings.
type Settings struct {
	// TempDir is the root directory for downloaded video files.
	TempDir string `yaml:"temp_dir,omitempty"`

	// ListenAddr is the address the HTTP API binds to.
	ListenAddr string `yaml:"listen_addr,omitempty"`

	// Reaper settings
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	MaxFileAge      time.Duration `yaml:"max_file_age"`
	MaxTaskAge      time.Duration `yaml:"max_task_age"`

	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// RetrievalConfig enumerates every recognized retrieval option. It replaces
// the loose option map the downloader used to receive: every field here is
// typed and validated at startup.
type RetrievalConfig struct {
	// MaxFileSizeMB bounds the size of a downloaded video.
	MaxFileSizeMB int64 `yaml:"max_file_size_mb"`

	// Format is the requested container format, used for output naming.
	Format string `yaml:"format"`

	// UserAgent is sent with retrieval requests.
	UserAgent string `yaml:"user_agent,omitempty"`

	// AttemptTimeout bounds a single retrieval attempt.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// MaxRetries is the number of attempts for transient (network) failures.
	MaxRetries int `yaml:"max_retries"`
}

// Default configuration values.
const (
	// DefaultCleanupInterval is how often the reaper runs.
	DefaultCleanupInterval = 15 * time.Minute

	// DefaultMaxFileAge is how long a downloaded file may linger before the
	// reaper removes it even without a delivery confirmation.
	DefaultMaxFileAge = time.Hour

	// DefaultMaxTaskAge is how long a terminal task record is kept for pollers.
	DefaultMaxTaskAge = time.Hour

	// DefaultAttemptTimeout bounds a single retrieval attempt.
	DefaultAttemptTimeout = 90 * time.Second

	// DefaultMaxRetries is the retry budget for transient failures.
	DefaultMaxRetries = 3

	// DefaultMaxFileSizeMB matches the upload limit of the delivery transport.
	DefaultMaxFileSizeMB = 50

	// DefaultListenAddr is the default HTTP API address.
	DefaultListenAddr = ":8080"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	dirMode  = os.FileMode(0o755)
	fileMode = os.FileMode(0o644)
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			TempDir:         filepath.Join(os.TempDir(), "clipsaver"),
			ListenAddr:      DefaultListenAddr,
			CleanupInterval: DefaultCleanupInterval,
			MaxFileAge:      DefaultMaxFileAge,
			MaxTaskAge:      DefaultMaxTaskAge,
			LogLevel:        "info",
		},
		Retrieval: RetrievalConfig{
			MaxFileSizeMB:  DefaultMaxFileSizeMB,
			Format:         "mp4",
			UserAgent:      "clipsaver/" + Version,
			AttemptTimeout: DefaultAttemptTimeout,
			MaxRetries:     DefaultMaxRetries,
		},
	}
}

// Version is the config-reported application version.
const Version = "0.1.0"

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), dirMode); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	// Write to a temp file first and rename so readers never observe a
	// half-written config.
	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// applyDefaults fills unset fields with their default values.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.TempDir == "" {
		c.Settings.TempDir = defaults.Settings.TempDir
	}
	if c.Settings.ListenAddr == "" {
		c.Settings.ListenAddr = defaults.Settings.ListenAddr
	}
	if c.Settings.CleanupInterval == 0 {
		c.Settings.CleanupInterval = defaults.Settings.CleanupInterval
	}
	if c.Settings.MaxFileAge == 0 {
		c.Settings.MaxFileAge = defaults.Settings.MaxFileAge
	}
	if c.Settings.MaxTaskAge == 0 {
		c.Settings.MaxTaskAge = defaults.Settings.MaxTaskAge
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Retrieval.MaxFileSizeMB == 0 {
		c.Retrieval.MaxFileSizeMB = defaults.Retrieval.MaxFileSizeMB
	}
	if c.Retrieval.Format == "" {
		c.Retrieval.Format = defaults.Retrieval.Format
	}
	if c.Retrieval.UserAgent == "" {
		c.Retrieval.UserAgent = defaults.Retrieval.UserAgent
	}
	if c.Retrieval.AttemptTimeout == 0 {
		c.Retrieval.AttemptTimeout = defaults.Retrieval.AttemptTimeout
	}
	if c.Retrieval.MaxRetries == 0 {
		c.Retrieval.MaxRetries = defaults.Retrieval.MaxRetries
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	return validateRetrieval(c.Retrieval)
}

func validateSettings(s Settings) error {
	if s.TempDir == "" {
		return errors.Wrap(errors.ErrConfigValidation, "temp_dir cannot be empty")
	}
	if s.CleanupInterval <= 0 {
		return errors.Wrap(errors.ErrConfigValidation, "cleanup_interval must be positive")
	}
	if s.MaxFileAge <= 0 {
		return errors.Wrap(errors.ErrConfigValidation, "max_file_age must be positive")
	}
	if s.MaxTaskAge <= 0 {
		return errors.Wrap(errors.ErrConfigValidation, "max_task_age must be positive")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid log level: %s", s.LogLevel)
	}
	return nil
}

func validateRetrieval(r RetrievalConfig) error {
	if r.MaxFileSizeMB <= 0 {
		return errors.Wrap(errors.ErrConfigValidation, "max_file_size_mb must be positive")
	}
	if r.Format == "" {
		return errors.Wrap(errors.ErrConfigValidation, "format cannot be empty")
	}
	if r.AttemptTimeout <= 0 {
		return errors.Wrap(errors.ErrConfigValidation, "attempt_timeout must be positive")
	}
	if r.MaxRetries < 1 {
		return errors.Wrap(errors.ErrConfigValidation, "max_retries must be at least 1")
	}
	return nil
}

// MaxFileSizeBytes returns the retrieval size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Retrieval.MaxFileSizeMB * 1024 * 1024
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "clipsaver", "config.yaml"), nil
}
