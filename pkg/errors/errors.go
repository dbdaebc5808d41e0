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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Archive errors
	ErrArchiveRead   ErrorCode = "ARCHIVE_READ"
	ErrUnknownLayout ErrorCode = "UNKNOWN_LAYOUT"

	// Record errors
	ErrUnexpectedDevice ErrorCode = "UNEXPECTED_DEVICE"
	ErrMultipleDevices  ErrorCode = "MULTIPLE_DEVICES"
	ErrRecordNotFound   ErrorCode = "RECORD_NOT_FOUND"

	// Library errors
	ErrLibraryLocked ErrorCode = "LIBRARY_LOCKED"
	ErrPromptFailed  ErrorCode = "PROMPT_FAILED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// ImportError represents a structured error with code and details
type ImportError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ImportError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ImportError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ImportError) Is(target error) bool {
	var targetErr *ImportError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ImportError with the given code and message
func New(code ErrorCode, message string) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ImportError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ImportError {
	return &ImportError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an ImportError
func Wrap(err error, code ErrorCode, message string) *ImportError {
	if err == nil {
		return nil
	}
	return &ImportError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ImportError {
	if err == nil {
		return nil
	}
	return &ImportError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ImportError) WithDetail(key string, value interface{}) *ImportError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ImportError) WithDetails(details map[string]interface{}) *ImportError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an ImportError
func GetErrorCode(err error) ErrorCode {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an ImportError
func GetErrorDetails(err error) map[string]interface{} {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Details
	}
	return nil
}

// AsImportError unwraps err to an ImportError if possible
func AsImportError(err error) (*ImportError, bool) {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr, true
	}
	return nil, false
}
