package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel behind every InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports a status change the current state or the
// actor's role does not allow.
type InvalidTransitionError struct {
	From  string
	To    string
	Cause error
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// NewInvalidTransitionErrorWithCause is like NewInvalidTransitionError but keeps cause in the message.
func NewInvalidTransitionErrorWithCause(from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	return withCause(fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, sanitize(e.From), sanitize(e.To)), e.Cause)
}

// Unwrap returns ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
