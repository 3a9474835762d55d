package validator

import "errors"

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNilDocument is returned when a schema is asked to validate a nil document.
	ErrNilDocument = errors.New("validator: nil document")
)
