package entities

import (
	"errors"
	"fmt"
)

// Sentinel kinds for use with errors.Is().
var (
	// ErrDiscovery indicates a workspace could not be listed, read or parsed.
	ErrDiscovery = errors.New("workspace discovery error")
	// ErrConfig indicates a malformed or missing depalign config.
	ErrConfig = errors.New("configuration error")
	// ErrWrite indicates a manifest, config or lockfile could not be written.
	ErrWrite = errors.New("write error")
)

// DiscoveryError reports a failure to list workspaces or read a manifest.
type DiscoveryError struct {
	Path  string
	Cause error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to read workspace %s: %v", e.Path, e.Cause)
}

func (e *DiscoveryError) Unwrap() error { return e.Cause }

func (e *DiscoveryError) Is(target error) bool { return target == ErrDiscovery }

// ConfigParseError reports a depalign config that is present but malformed,
// or absent at a path the user asked for explicitly.
type ConfigParseError struct {
	Path  string
	Cause error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to load config %s: %v", e.Path, e.Cause)
}

func (e *ConfigParseError) Unwrap() error { return e.Cause }

func (e *ConfigParseError) Is(target error) bool { return target == ErrConfig }

// WriteError reports a failed manifest, config or lockfile update. Writes
// that already succeeded are not rolled back.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }
