package members

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the join request does not exist.
	ErrNotFound = errors.New("join request not found")

	// ErrForbidden indicates the caller does not own the join request.
	ErrForbidden = errors.New("join request belongs to another member")

	// ErrInvalidInput is matched by *ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDelivery indicates the contact email could not be sent.
	ErrDelivery = errors.New("message delivery failed")
)

// ValidationError maps each invalid form field to the message shown next
// to it.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// Is lets callers test for ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
