package task

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidDeadline = errors.New("invalid deadline")
	ErrTaskNotFound    = errors.New("task not found")
)

// FieldError ties a validation failure to the draft field that caused it.
type FieldError struct {
	Kind  error
	Field string
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Field)
}

func (e *FieldError) Unwrap() error { return e.Kind }

func missing(field string) error {
	return &FieldError{Kind: ErrMissingField, Field: field}
}
