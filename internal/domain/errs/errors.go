// Package errs defines the error taxonomy surfaced to callers. Every
// business error wraps one of the sentinel kinds below so the transport
// layer can map it to a response code without string matching.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller-fault input errors
	ErrValidation = errors.New("validation error")

	// ErrConflict marks state-conflict errors (e.g. transition out of a terminal state)
	ErrConflict = errors.New("state conflict")

	// ErrNotFound marks references to entities that do not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks role-policy violations
	ErrForbidden = errors.New("forbidden")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Forbiddenf wraps ErrForbidden with a formatted detail message.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// IsValidation reports whether err is caller-fault input.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a state conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound reports whether err references a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden reports whether err is a role-policy violation.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
