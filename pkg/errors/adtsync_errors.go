package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Repository layout errors
	ErrRepoInvalid    ErrorCode = "REPO_INVALID"
	ErrNotPackageDir  ErrorCode = "NOT_PACKAGE_DIR"
	ErrBadObjectFile  ErrorCode = "BAD_OBJECT_FILE"
	ErrDescriptorRead ErrorCode = "DESCRIPTOR_READ"

	// Check-in errors; CHECKIN_FAILURE is structural and skips a single
	// object, everything else aborts the run
	ErrCheckinFailure ErrorCode = "CHECKIN_FAILURE"

	// Remote object errors
	ErrAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	ErrCreationFailure ErrorCode = "CREATION_FAILURE"
	ErrEditorOpen      ErrorCode = "EDITOR_OPEN"
	ErrSourceWrite     ErrorCode = "SOURCE_WRITE"
	ErrActivation      ErrorCode = "ACTIVATION"
	ErrConnection      ErrorCode = "CONNECTION"
)

// AdtsyncError represents a structured error with code and details
type AdtsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AdtsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AdtsyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AdtsyncError) Is(target error) bool {
	var targetErr *AdtsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AdtsyncError with the given code and message
func New(code ErrorCode, message string) *AdtsyncError {
	return &AdtsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AdtsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AdtsyncError {
	return &AdtsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AdtsyncError
func Wrap(err error, code ErrorCode, message string) *AdtsyncError {
	if err == nil {
		return nil
	}
	return &AdtsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AdtsyncError {
	if err == nil {
		return nil
	}
	return &AdtsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AdtsyncError) WithDetail(key string, value interface{}) *AdtsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var aerr *AdtsyncError
	if errors.As(err, &aerr) {
		return aerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not
// an AdtsyncError
func GetErrorCode(err error) ErrorCode {
	var aerr *AdtsyncError
	if errors.As(err, &aerr) {
		return aerr.Code
	}
	return ErrUnknown
}
