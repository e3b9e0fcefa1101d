// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated user doesn't have permission.
	ErrForbidden = errors.New("forbidden")
)

// AuthError indicates a problem with the presented credential or the identity
// behind it: empty or expired tokens, bad signatures, identities that no longer
// exist, or token scopes that exceed the identity's roles.
//
// The Message is safe to show to callers. The Cause, when present, carries the
// underlying verification failure and is intended for logs only.
type AuthError struct {
	Message string
	Cause   error
}

// Error returns the user-facing message.
func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap makes AuthError match ErrUnauthorized via errors.Is, and exposes the
// underlying cause for errors.As chains.
func (e *AuthError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrUnauthorized, e.Cause}
	}
	return []error{ErrUnauthorized}
}

// NewAuthError creates an AuthError with an optional underlying cause.
func NewAuthError(message string, cause error) *AuthError {
	return &AuthError{Message: message, Cause: cause}
}

// PermissionError is the single denial type raised by the authorization engine.
// Its public message is always "permission denied"; the permission key, the
// data under evaluation and the real cause are attached for internal logging
// and never exposed to callers.
type PermissionError struct {
	Permission     string
	PermissionData any
	Cause          error
}

// Error returns the fixed public message. Denials are intentionally opaque.
func (e *PermissionError) Error() string {
	return "permission denied"
}

// Unwrap makes PermissionError match ErrForbidden via errors.Is, and exposes
// the underlying cause for errors.As chains.
func (e *PermissionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrForbidden, e.Cause}
	}
	return []error{ErrForbidden}
}

// NewPermissionError creates a PermissionError for the given permission key.
func NewPermissionError(permission string, data any, cause error) *PermissionError {
	return &PermissionError{Permission: permission, PermissionData: data, Cause: cause}
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
