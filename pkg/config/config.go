// Package config provides configuration management for the pysweep cleanup tool.
// It handles loading, validating, and managing application settings, extra sweep
// targets, and directory exclusions. The package supports YAML configuration files
// and provides sensible defaults while allowing for customization through
// configuration files.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/pysweep/pkg/errors"
	"github.com/glorpus-work/pysweep/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings"`

	// Additional cache targets removed alongside the builtin ones
	ExtraTargets []TargetConfig `yaml:"extra_targets,omitempty"`

	// Directory names the sweep never descends into
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"`
}

// TargetConfig represents a single user-defined sweep target.
type TargetConfig struct {
	// Name is the base name to match. Directories match exactly,
	// files match as a glob pattern (e.g. "*.log").
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "dir" or "file"
}

// Settings represents general application settings.
type Settings struct {
	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // error, warn, info, debug

	// Backup settings
	BackupDir string `yaml:"backup_dir,omitempty"`

	// Tool overrides
	CondaPrefix string `yaml:"conda_prefix,omitempty"` // explicit conda install prefix
	PipCommand  string `yaml:"pip_command,omitempty"`  // explicit pip executable
}

// Target kinds accepted in extra_targets.
const (
	TargetKindDir  = "dir"
	TargetKindFile = "file"
)

// YAMLIndent is the number of spaces to use for YAML indentation.
const YAMLIndent = 2

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			OutputFormat: "text",
			LogLevel:     "info",
		},
		ExtraTargets: []TargetConfig{},
		ExcludeDirs:  []string{},
	}
}

// LoadConfig loads configuration from a file.
func LoadConfig(path string) (*Config, error) {
	// Validate the config file path
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	// Ensure the path is clean and absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	// Check if file exists and is accessible
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

	// Apply defaults and validate
	config.applyDefaults()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	// Validate the config file path
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	// Ensure the path is clean and absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	// Write to a temporary file first so a failed save never truncates the config
	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	// Write YAML data
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	// Atomically replace the config file
	if err := os.Rename(tempPath, absPath); err != nil {
		// Clean up temp file if rename fails
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	// Ensure the final file has the correct permissions (0644)
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileChmod, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	if err := validateTargets(c.ExtraTargets); err != nil {
		return err
	}
	return validateExcludes(c.ExcludeDirs)
}

func validateSettings(s Settings) error {
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

func validateTargets(targets []TargetConfig) error {
	for _, target := range targets {
		if target.Name == "" {
			return errors.ErrInvalidTargetWithDetails(target.Name, "name cannot be empty")
		}
		if strings.ContainsAny(target.Name, `/\`) {
			return errors.ErrInvalidTargetWithDetails(target.Name, "name must not contain path separators")
		}
		if target.Name == "." || target.Name == ".." {
			return errors.ErrInvalidTargetWithDetails(target.Name, "name must not be a relative path element")
		}
		switch target.Kind {
		case TargetKindDir:
			// exact base name match
		case TargetKindFile:
			if _, err := filepath.Match(target.Name, "probe"); err != nil {
				return errors.ErrInvalidTargetWithDetails(target.Name, "invalid glob pattern")
			}
		default:
			return errors.ErrInvalidTargetWithDetails(target.Name, fmt.Sprintf("unknown kind %q (valid: dir, file)", target.Kind))
		}
	}
	return nil
}

func validateExcludes(excludes []string) error {
	for _, name := range excludes {
		if name == "" {
			return errors.ErrConfigValidationWithDetails("exclude entry cannot be empty")
		}
		if strings.ContainsAny(name, `/\`) {
			return errors.ErrConfigValidationWithDetails(fmt.Sprintf("exclude %q must not contain path separators", name))
		}
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, fsutil.AppName)
	return filepath.Join(appConfigDir, "config.yaml"), nil
}

// GetBackupDir returns the configured backup directory, falling back to the
// platform cache directory when unset.
func (c *Config) GetBackupDir() (string, error) {
	if c.Settings.BackupDir != "" {
		return c.Settings.BackupDir, nil
	}
	return fsutil.GetBackupDir()
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.ExtraTargets == nil {
		c.ExtraTargets = []TargetConfig{}
	}
	if c.ExcludeDirs == nil {
		c.ExcludeDirs = []string{}
	}
}
