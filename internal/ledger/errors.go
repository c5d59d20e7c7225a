package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity with the requested id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInUse is returned when deleting an entity that other rows still reference.
	ErrInUse = errors.New("still referenced")
	// ErrInvariant is returned when a recomputed balance cannot be persisted.
	ErrInvariant = errors.New("balance invariant violated")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
