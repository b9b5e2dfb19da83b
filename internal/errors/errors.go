package errors

import (
	"fmt"
	"time"
)

// Error types for the hiegraph pipeline. The extraction core itself never
// produces errors (a failed parse is an absent result); these cover the
// collaborators around it: dump loading, configuration, and rendering.
type ErrorType string

const (
	ErrorTypeDump   ErrorType = "dump"
	ErrorTypeDecode ErrorType = "decode"
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeRender ErrorType = "render"

	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	ErrorTypeInternal ErrorType = "internal"
)

// DumpError represents a failure to locate, read, or decode an interface
// dump file.
type DumpError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewDumpError creates a new dump error with context
func NewDumpError(op, path string, err error) *DumpError {
	return &DumpError{
		Type:       ErrorTypeDump,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewDecodeError creates a dump error for a malformed dump payload
func NewDecodeError(path string, err error) *DumpError {
	return &DumpError{
		Type:       ErrorTypeDump,
		Path:       path,
		Operation:  "decode",
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *DumpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *DumpError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors collected across a batch run
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping nil entries
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// HasErrors reports whether the batch collected anything
func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}
