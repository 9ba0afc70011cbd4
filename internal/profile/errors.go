package profile

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes profile loading errors.
type ErrorCode string

const (
	// CodeProfileNotFound indicates the identifier does not resolve to a file.
	CodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"

	// CodeMalformedProfile indicates the file exists but violates the schema.
	CodeMalformedProfile ErrorCode = "MALFORMED_PROFILE"
)

// Error is returned by every failed load.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Profile is the identifier that was requested.
	Profile string

	// Field locates the offending value inside the document, e.g.
	// provider_groups.0.providers.2.inventory.runm.memory.reserved.
	// Empty when the error is not tied to a field.
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Profile != "" {
		return fmt.Sprintf("%s: profile %q: %s", e.Code, e.Profile, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is a CodeProfileNotFound error.
func IsNotFound(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == CodeProfileNotFound
	}
	return false
}

// IsMalformed returns true if err is a CodeMalformedProfile error.
func IsMalformed(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == CodeMalformedProfile
	}
	return false
}

func notFound(name, message string, err error) *Error {
	return &Error{Code: CodeProfileNotFound, Profile: name, Message: message, Err: err}
}

func malformed(field, format string, args ...any) *Error {
	return &Error{Code: CodeMalformedProfile, Field: field, Message: fmt.Sprintf(format, args...)}
}
