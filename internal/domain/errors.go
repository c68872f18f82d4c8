package domain

import "errors"

var (
	// ErrNotFound means the referenced item or record does not exist.
	// Kept distinct from validation failures so callers can 404 rather
	// than 400.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is raised only inside the allocation
	// transaction, when the re-validated atomic decrement would drive
	// on-hand stock negative despite an earlier successful availability
	// check. Callers should retry the whole flow, not treat it as a
	// form error.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError is a user-correctable failure. Reason is surfaced verbatim
// to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
