package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")
	ErrConfigFileRename  = fmt.Errorf("failed to rename config file")
	ErrConfigFileChmod   = fmt.Errorf("failed to set config file permissions")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrConfigValidationWithDetails returns a config validation error with details.
func ErrConfigValidationWithDetails(details string) error {
	return fmt.Errorf("%w: %s", ErrConfigValidation, details)
}

// ErrInvalidLogLevelWithDetails returns a validation error for an unknown log level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: invalid log level %q (valid: debug, info, warn, error)", ErrConfigValidation, level)
}

// ErrInvalidOutputFormatWithDetails returns a validation error for an unknown output format.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: invalid output format %q (valid: text, json)", ErrConfigValidation, format)
}

// ErrUnknownConfigKeyWithName returns an error naming the unknown configuration key.
func ErrUnknownConfigKeyWithName(key string) error {
	return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
}

// ErrInvalidTargetWithDetails returns a validation error for a malformed extra target.
func ErrInvalidTargetWithDetails(name, details string) error {
	return fmt.Errorf("%w: extra target %q: %s", ErrConfigValidation, name, details)
}
