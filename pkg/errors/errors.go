// Package errors provides structured errors with stable codes for mage.
// Codes are what tests and callers branch on; messages are for humans.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string value.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Path resolution errors
	ErrInvalidPath ErrorCode = "INVALID_PATH"

	// Manifest errors
	ErrManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestParse    ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid  ErrorCode = "MANIFEST_INVALID"

	// Repository errors
	ErrRepoMissing   ErrorCode = "REPO_MISSING"
	ErrCloneFailed   ErrorCode = "CLONE_FAILED"
	ErrInvalidOrigin ErrorCode = "INVALID_ORIGIN"
	ErrPullFailed    ErrorCode = "PULL_FAILED"

	// Filesystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
)

// MageError is a structured error carrying a code and optional details.
type MageError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *MageError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *MageError) Unwrap() error {
	return e.Wrapped
}

// Is matches errors by code so sentinel comparisons survive wrapping.
func (e *MageError) Is(target error) bool {
	var targetErr *MageError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a MageError with the given code and message.
func New(code ErrorCode, message string) *MageError {
	return &MageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a MageError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *MageError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. Returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *MageError {
	if err == nil {
		return nil
	}
	return &MageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MageError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail attaches a key/value detail and returns the error for chaining.
func (e *MageError) WithDetail(key string, value interface{}) *MageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var mageErr *MageError
	if errors.As(err, &mageErr) {
		return mageErr.Code == code
	}
	return false
}

// GetErrorCode returns the code from err, or ErrUnknown for foreign errors.
func GetErrorCode(err error) ErrorCode {
	var mageErr *MageError
	if errors.As(err, &mageErr) {
		return mageErr.Code
	}
	return ErrUnknown
}
