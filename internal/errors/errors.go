// Package errors defines the error taxonomy shared by the catalog store,
// the manifest guard and the manifest writer. Typed errors carry the
// resource involved and match their sentinel through errors.Is, so callers
// can branch on the category without string matching.
package errors

import (
	"errors"
	"fmt"
)

// New is an alias for the standard library errors.New.
var New = errors.New

// Is, As and Unwrap forward to the standard library so importing this
// package does not hide them.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinel categories.
var (
	// ErrNotFound indicates a catalog or manifest file is missing.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates malformed JSON or YAML.
	ErrParse = errors.New("parse error")

	// ErrNetwork indicates a catalog fetch failed.
	ErrNetwork = errors.New("network error")

	// ErrGuardViolation indicates an attempted mutation of a file that does
	// not carry the managed-file sentinel.
	ErrGuardViolation = errors.New("file is not managed")

	// ErrIO indicates a filesystem failure while writing.
	ErrIO = errors.New("io error")
)

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	Path     string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Resource, e.Path)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, path string) *NotFoundError {
	return &NotFoundError{Resource: resource, Path: path}
}

// ParseError reports a document that could not be decoded.
type ParseError struct {
	Format  string // "json" or "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, err error) *ParseError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// NetworkError reports a failed catalog fetch. StatusCode is zero for
// transport failures.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(url string, statusCode int, err error) *NetworkError {
	return &NetworkError{URL: url, StatusCode: statusCode, Err: err}
}

// GuardViolationError reports a refused write to an unmanaged file.
type GuardViolationError struct {
	Path string
}

// Error implements the error interface
func (e *GuardViolationError) Error() string {
	return fmt.Sprintf("%s is not managed by conan-panel; refusing to modify it", e.Path)
}

// Is implements errors.Is support
func (e *GuardViolationError) Is(target error) bool {
	return target == ErrGuardViolation
}

// NewGuardViolationError creates a new GuardViolationError
func NewGuardViolationError(path string) *GuardViolationError {
	return &GuardViolationError{Path: path}
}

// IOError represents a filesystem failure.
type IOError struct {
	Operation string // "read", "write", "create", "rename", "mkdir"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsNetwork checks if an error is a network error
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsGuardViolation checks if an error is a guard violation
func IsGuardViolation(err error) bool {
	return errors.Is(err, ErrGuardViolation)
}

// IsIO checks if an error is an IO error
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
