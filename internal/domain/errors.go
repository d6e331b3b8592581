package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for sources that do not exist or are not owned
// by the requesting user. Ownership misses deliberately look identical to
// missing rows so existence never leaks across owners.
var ErrNotFound = errors.New("source not found")

// ErrCheckInProgress is returned by on-demand checks when another
// operation already holds the source's in-flight token.
var ErrCheckInProgress = errors.New("source check already in progress")

// ValidationError rejects malformed input before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError rejects unsupported source types at creation time.
type ConfigurationError struct {
	Type string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported source type: %q", e.Type)
}
