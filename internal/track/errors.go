package track

// errors.go defines the tagged error taxonomy of the protocol core.
// The envelope handler and the client inspect error codes, never error
// strings, to decide the HTTP status and the retry behavior.

import (
	"fmt"
	"strings"
)

type ErrorCode string

const (
	// ErrCodeFormat is used when the outer envelope or an inner JSON body is
	// malformed. Maps to 400, never retried.
	ErrCodeFormat ErrorCode = "format"

	// ErrCodeValidation is used for field-level request or response
	// violations. Carries the accumulated violation list. Never retried.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeNotFound is signaled by a DataProvider when no matching
	// application exists. Maps to 404.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeProvider is used for any other DataProvider failure. Maps to 500.
	ErrCodeProvider ErrorCode = "provider"

	// ErrCodeTransport is used for client-side network failures.
	// This is the only retryable code.
	ErrCodeTransport ErrorCode = "transport"

	// ErrCodeAPI is used when the counterpart returned a structured error
	// response (non-200 with a parseable body). Terminal on the client.
	ErrCodeAPI ErrorCode = "api"

	// ErrCodeProtocol wraps a client-side terminal failure after retries are
	// exhausted, carrying the last underlying cause.
	ErrCodeProtocol ErrorCode = "protocol"
)

// TrackError represents a structured error from the track package.
type TrackError struct {

	// code is the track error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error

	// violations holds the accumulated field errors for validation failures
	violations []string

	// statusCode and responseBody preserve the counterpart's answer for
	// API errors so callers can diagnose without re-contacting it
	statusCode   int
	responseBody string
}

func (e *TrackError) Error() string {
	if len(e.violations) > 0 {
		return fmt.Sprintf("%s: %s", e.message, strings.Join(e.violations, ", "))
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *TrackError) Code() ErrorCode { return e.code }
func (e *TrackError) Unwrap() error   { return e.wrapped }

// Violations returns the accumulated field-level errors of a validation
// failure, nil for other codes.
func (e *TrackError) Violations() []string { return e.violations }

// StatusCode returns the HTTP status of an API error, 0 for other codes.
func (e *TrackError) StatusCode() int { return e.statusCode }

// ResponseBody returns the raw body of an API error response, empty for
// other codes.
func (e *TrackError) ResponseBody() string { return e.responseBody }

// NewFormatError creates an error for a malformed envelope or JSON body.
//
// The returned error will have code ErrCodeFormat.
func NewFormatError(msg string) error {
	return &TrackError{code: ErrCodeFormat, message: msg}
}

// WrapFormatError wraps an existing error as a format error.
//
// The returned error will have code ErrCodeFormat.
func WrapFormatError(err error, msg string) error {
	return &TrackError{code: ErrCodeFormat, message: msg, wrapped: err}
}

// NewValidationError creates a validation error carrying the full violation
// list accumulated by a validator.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string, violations []string) error {
	return &TrackError{code: ErrCodeValidation, message: msg, violations: violations}
}

// NewNotFoundError creates the distinguished "no matching application"
// error. DataProviders must return this (optionally wrapped) rather than a
// nil response so absence is never mistaken for success.
//
// The returned error will have code ErrCodeNotFound.
func NewNotFoundError(msg string) error {
	if msg == "" {
		msg = "Application not found"
	}
	return &TrackError{code: ErrCodeNotFound, message: msg}
}

// WrapProviderError wraps an unexpected DataProvider failure.
//
// The returned error will have code ErrCodeProvider.
func WrapProviderError(err error, msg string) error {
	return &TrackError{code: ErrCodeProvider, message: msg, wrapped: err}
}

// WrapTransportError wraps a client-side network failure. Transport errors
// are the only errors the client retries.
//
// The returned error will have code ErrCodeTransport.
func WrapTransportError(err error, msg string) error {
	return &TrackError{code: ErrCodeTransport, message: msg, wrapped: err}
}

// NewAPIError creates an error for a structured error response from the
// counterpart, preserving the HTTP status and raw body.
//
// The returned error will have code ErrCodeAPI.
func NewAPIError(msg string, statusCode int, responseBody string) error {
	return &TrackError{code: ErrCodeAPI, message: msg, statusCode: statusCode, responseBody: responseBody}
}

// WrapProtocolError wraps the last underlying cause after the client has
// exhausted its retries.
//
// The returned error will have code ErrCodeProtocol.
func WrapProtocolError(err error, msg string) error {
	return &TrackError{code: ErrCodeProtocol, message: msg, wrapped: err}
}
