package config

import (
	"github.com/glorpus-work/pysweep/pkg/errors"
)

// SetValue sets a configuration value by key.
// Supported keys:
//   - output_format: string - Output format (text, json)
//   - log_level: string - Logging level (debug, info, warn, error)
//   - backup_dir: string - Directory for backup archives
//   - conda_prefix: string - Explicit conda install prefix
//   - pip_command: string - Explicit pip executable
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "output_format":
		c.Settings.OutputFormat = value
	case "log_level":
		c.Settings.LogLevel = value
	case "backup_dir":
		c.Settings.BackupDir = value
	case "conda_prefix":
		c.Settings.CondaPrefix = value
	case "pip_command":
		c.Settings.PipCommand = value
	default:
		return errors.ErrUnknownConfigKeyWithName(key)
	}
	return c.Validate()
}

// GetValue returns a configuration value by key as a string.
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case "output_format":
		return c.Settings.OutputFormat, nil
	case "log_level":
		return c.Settings.LogLevel, nil
	case "backup_dir":
		return c.Settings.BackupDir, nil
	case "conda_prefix":
		return c.Settings.CondaPrefix, nil
	case "pip_command":
		return c.Settings.PipCommand, nil
	default:
		return "", errors.ErrUnknownConfigKeyWithName(key)
	}
}

// ToMap returns the settings as a flat key/value map.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	return map[string]string{
		"output_format": c.Settings.OutputFormat,
		"log_level":     c.Settings.LogLevel,
		"backup_dir":    c.Settings.BackupDir,
		"conda_prefix":  c.Settings.CondaPrefix,
		"pip_command":   c.Settings.PipCommand,
	}
}
