package errors

import (
	"errors"
	"fmt"
)

// Error classes shared by the gateway, the session store and the views
var (
	// Validation errors, raised before any network call
	ErrValidation = errors.New("validation failed")

	// Authentication errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoCredentials    = errors.New("no stored credentials")
	ErrInvalidSealedKey = errors.New("invalid credential sealing key")

	// Transport and backend errors
	ErrTransport = errors.New("transport error")
	ErrServer    = errors.New("backend error")
	ErrNotFound  = errors.New("not found")
)

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidation builds a ValidationError for field.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import
func New(text string) error {
	return errors.New(text)
}
