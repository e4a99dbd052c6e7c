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
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")

	// URL classification errors.
	ErrUnsupportedURL = fmt.Errorf("unsupported or invalid URL")
	ErrNoVideoID      = fmt.Errorf("could not extract video id from URL")

	// Task registry errors.
	ErrDuplicateActiveRequest = fmt.Errorf("an active task for this request already exists")
	ErrInvalidTransition      = fmt.Errorf("invalid task status transition")
	ErrTaskNotFound           = fmt.Errorf("task not found")
	ErrMissingErrorMessage    = fmt.Errorf("failed task requires an error message")
	ErrMissingFilePath        = fmt.Errorf("completed task requires a file path")

	// Storage errors.
	ErrStorageDirectory = fmt.Errorf("storage directory cannot be empty")
	ErrFileNotFound     = fmt.Errorf("file not found")
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
