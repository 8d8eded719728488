package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by the engine.
var (
	// ErrInvalidConfig is returned when grid parameters violate the deck constraints.
	ErrInvalidConfig = errors.New("engine: invalid configuration")

	// ErrRestoreMismatch is returned when a snapshot cannot be applied to a grid.
	ErrRestoreMismatch = errors.New("engine: snapshot does not fit grid")

	// ErrCorruptSnapshot is returned when a persisted snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("engine: corrupt snapshot")
)

// ConfigError describes a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// RestoreError describes why a snapshot was refused.
type RestoreError struct {
	Reason string
}

func (e *RestoreError) Error() string {
	return "engine: restore aborted: " + e.Reason
}

// Unwrap lets errors.Is match ErrRestoreMismatch.
func (e *RestoreError) Unwrap() error {
	return ErrRestoreMismatch
}
