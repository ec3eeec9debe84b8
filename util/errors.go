package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Root path errors
	ErrRelativePath      = errors.New("path is not absolute")
	ErrRootNotFound      = errors.New("path does not exist")
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// File errors
	ErrExpectedFile = errors.New("expected regular file")

	// Lock errors
	ErrLocked = errors.New("directory is being compressed by another process")
)

// ConfigError reports a root path that cannot be processed at all.
// It is fatal: nothing is walked or compressed when one is returned.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid directory %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
