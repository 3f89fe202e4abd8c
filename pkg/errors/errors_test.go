package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "additional context",
			expected: "",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			msg:      "additional context",
			expected: "additional context: original error",
		},
		{
			name:     "wrap with empty message",
			err:      errors.New("original error"),
			msg:      "",
			expected: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "wrapf nil error",
			err:      nil,
			format:   "formatted: %s",
			args:     []interface{}{"test"},
			expected: "",
		},
		{
			name:     "wrapf standard error",
			err:      errors.New("original error"),
			format:   "failed to remove %s",
			args:     []interface{}{"__pycache__"},
			expected: "failed to remove __pycache__: original error",
		},
		{
			name:     "wrapf with multiple args",
			err:      errors.New("original error"),
			format:   "failed to remove %s after %d attempts",
			args:     []interface{}{"__pycache__", 3},
			expected: "failed to remove __pycache__ after 3 attempts: original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrapf(tt.err, tt.format, tt.args...)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			// Test that the original error is wrapped
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestErrUnknownConfigKeyWithName(t *testing.T) {
	err := ErrUnknownConfigKeyWithName("color_output")
	if !errors.Is(err, ErrUnknownConfigKey) {
		t.Errorf("Expected error to wrap ErrUnknownConfigKey")
	}
	if err.Error() != "unknown configuration key: color_output" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestErrConfigValidationWithDetails(t *testing.T) {
	err := ErrConfigValidationWithDetails("unknown output format")
	if !errors.Is(err, ErrConfigValidation) {
		t.Errorf("Expected error to wrap ErrConfigValidation")
	}
	if err.Error() != "invalid configuration: unknown output format" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}
