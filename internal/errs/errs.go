// Package errs defines coded application errors shared by the assistant
// components. Every error carries a code so callers can map failures to a
// user-facing outcome without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown    = "UNKNOWN"
	CodeConfig     = "CONFIG"
	CodeValidation = "VALIDATION"
	CodeTransport  = "TRANSPORT"
	CodeAuth       = "AUTH"
	CodeDatabase   = "DATABASE"
)

// ApplicationError is implemented by every coded error in this package.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error is a coded error with an optional cause.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() string {
	return e.code
}

// Message returns the message without the wrapped cause.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if there is none.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

func newError(code, message string, cause error) error {
	return &Error{code: code, message: message, err: cause}
}

// NewConfigError reports missing or invalid startup configuration.
func NewConfigError(message string, cause error) error {
	return newError(CodeConfig, message, cause)
}

// NewValidationError reports input rejected before any network call.
func NewValidationError(message string, cause error) error {
	return newError(CodeValidation, message, cause)
}

// NewTransportError reports a failed call to a remote service.
func NewTransportError(message string, cause error) error {
	return newError(CodeTransport, message, cause)
}

// NewAuthError reports an identity-provider failure.
func NewAuthError(message string, cause error) error {
	return newError(CodeAuth, message, cause)
}

// NewDatabaseError reports a local persistence failure.
func NewDatabaseError(message string, cause error) error {
	return newError(CodeDatabase, message, cause)
}
