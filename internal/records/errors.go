package records

import (
	"errors"
	"fmt"

	"cruzados-backend/internal/commission"
)

var (
	// ErrNotFound indicates the record id does not exist in the commission.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates input failed validation. *ValidationError
	// matches it with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	errDuplicateID = errors.New("record id already exists")
)

// ValidationError maps each invalid field to a human-readable reason.
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

// StoreError wraps a failed call to the backing record store.
type StoreError struct {
	Op         string
	Commission commission.Commission
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store %s %s: %v", e.Op, e.Commission, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StorageError wraps a failed attachment upload.
type StorageError struct {
	FileName string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
