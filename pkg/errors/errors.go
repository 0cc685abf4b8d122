// Package errors provides structured error types for the pds-crawler pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the ETL driver and every component
//   - Machine-readable error codes for per-collection failure reports
//   - Error wrapping with context preservation
//
// # Error taxonomy
//
// Error codes follow the failure categories a collection pass can hit:
//   - TRANSIENT_IO / PERMANENT_IO: upstream fetch failures
//   - MALFORMED_UPSTREAM: upstream payload fails basic shape checks
//   - PARSE / INVARIANT: PDS3 grammar rejects a file, or a required sub-object is missing
//   - STORAGE: local disk failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "unexpected token at line %d", line)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // record against the collection report and continue
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransientIO, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the categories in the error handling design.
const (
	// Transient I/O errors: network errors, 5xx, 429. Retried with backoff.
	ErrCodeTransientIO Code = "TRANSIENT_IO"

	// Permanent I/O errors: non-retriable HTTP status (4xx other than 429),
	// DNS failure after the retry cap. Recorded against the collection; the
	// phase continues.
	ErrCodePermanentIO Code = "PERMANENT_IO"

	// Malformed upstream response: non-JSON where JSON was expected, truncated
	// HTML. The offending file is retained under a quarantine directory.
	ErrCodeMalformedUpstream Code = "MALFORMED_UPSTREAM"

	// Parse error: the PDS3 grammar rejects a file. Line/column identify the
	// offending token; the variant is marked unparsed.
	ErrCodeParse Code = "PARSE"

	// Invariant violation: a required sub-object is missing from an otherwise
	// parseable file. Surfaced as a parse error with an explicit message.
	ErrCodeInvariant Code = "INVARIANT"

	// Storage error: disk full, permission denied. Fatal to the current
	// collection; the driver reports and proceeds to the next one.
	ErrCodeStorage Code = "STORAGE"

	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeInvalidFingerprint Code = "INVALID_FINGERPRINT"

	// Resource not found errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeCollectionNotFound Code = "COLLECTION_NOT_FOUND"

	// Network errors (finer-grained signal than TRANSIENT_IO for the fetcher)
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Retryable reports whether the error code represents a condition worth
// retrying with backoff, per the error handling design's taxonomy.
func Retryable(code Code) bool {
	switch code {
	case ErrCodeTransientIO, ErrCodeTimeout, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
