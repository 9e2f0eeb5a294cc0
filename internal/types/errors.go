package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("storage unavailable")
)

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

type taggedError struct {
	sentinel error
	msg      string
}

func (e *taggedError) Error() string { return e.msg }
func (e *taggedError) Unwrap() error { return e.sentinel }

// Wrap returns an error that reads as msg and matches sentinel with errors.Is.
func Wrap(sentinel error, msg string) error {
	return &taggedError{sentinel: sentinel, msg: msg}
}

// StorageError wraps a store failure so callers can match ErrStorage.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
