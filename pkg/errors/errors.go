// Package errors provides structured errors with stable codes so that
// commands can map failures onto exit behavior and tests can assert on
// error identity instead of message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string code.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration and registry errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigVersion    ErrorCode = "CONFIG_VERSION"
	ErrRegistryLoad     ErrorCode = "REGISTRY_LOAD"
	ErrRegistryVersion  ErrorCode = "REGISTRY_VERSION"
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateExists   ErrorCode = "TEMPLATE_EXISTS"
	ErrTemplateMissing  ErrorCode = "TEMPLATE_MISSING"

	// Materialization errors
	ErrSourceUnreadable     ErrorCode = "SOURCE_UNREADABLE"
	ErrRecursiveInit        ErrorCode = "RECURSIVE_INIT"
	ErrCollisionStrict      ErrorCode = "COLLISION_STRICT"
	ErrCollisionNoOverwrite ErrorCode = "COLLISION_NO_OVERWRITE"
	ErrSymlinkCycle         ErrorCode = "SYMLINK_CYCLE"
	ErrIoFailure            ErrorCode = "IO_FAILURE"
	ErrDangerousPath        ErrorCode = "DANGEROUS_PATH"

	// Git lifecycle errors
	ErrGitFailed    ErrorCode = "GIT_FAILED"
	ErrGitIdentity  ErrorCode = "GIT_IDENTITY"
	ErrGitMissing   ErrorCode = "GIT_MISSING"
	ErrCacheCorrupt ErrorCode = "CACHE_CORRUPT"

	// Hook errors
	ErrHookFailed ErrorCode = "HOOK_FAILED"
)

// TemplativeError is a structured error carrying a code, a message and
// optional key/value details for diagnostics.
type TemplativeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface.
func (e *TemplativeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *TemplativeError) Unwrap() error {
	return e.Wrapped
}

// Is reports code equality so that errors.Is can match against a
// sentinel created with the same code.
func (e *TemplativeError) Is(target error) bool {
	var targetErr *TemplativeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code ErrorCode, message string) *TemplativeError {
	return &TemplativeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *TemplativeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error under the given code. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *TemplativeError {
	if err == nil {
		return nil
	}
	return &TemplativeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TemplativeError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail attaches a key/value detail and returns the error for
// chaining.
func (e *TemplativeError) WithDetail(key string, value interface{}) *TemplativeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrUnknown when err is not
// a TemplativeError.
func CodeOf(err error) ErrorCode {
	var terr *TemplativeError
	if errors.As(err, &terr) {
		return terr.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
