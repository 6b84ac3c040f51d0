package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel domain errors. Callers distinguish them with errors.Is so the API
// layer can tell a rejected transition apart from a missing note.
var (
	ErrIllegalTransition = errors.New("status transition not allowed")
	ErrNoteRequired      = errors.New("a note is required for this status change")
)

// ValidationError reports a missing or invalid user-supplied field. It is
// recoverable and user-facing: the UI shows the message and lets the user
// correct the input.
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

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
