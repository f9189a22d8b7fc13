// Package apperrors provides custom error types for domain-specific errors.
package apperrors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidSeries = errors.New("invalid price series")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrDataNotFound  = errors.New("data not found")
)

// SeriesError reports a malformed or too-short input series. The analysis
// produces no partial result when this is returned.
type SeriesError struct {
	Reason string
	Bars   int
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("invalid series (%d bars): %s", e.Bars, e.Reason)
}

func (e *SeriesError) Unwrap() error {
	return ErrInvalidSeries
}

// NewSeriesError creates a new SeriesError.
func NewSeriesError(reason string, bars int) *SeriesError {
	return &SeriesError{Reason: reason, Bars: bars}
}

// ConfigError reports an out-of-range or malformed configuration value,
// surfaced before any computation starts.
type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Message: message}
}

// DataError represents a data acquisition error.
type DataError struct {
	Provider string
	Contract string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Provider, e.Contract, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Provider, e.Contract, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(provider, contract, message string, err error) *DataError {
	return &DataError{Provider: provider, Contract: contract, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
