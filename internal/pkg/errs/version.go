package errs

import (
	"errors"
	"fmt"
)

// ErrVersionIsInvalid is the sentinel behind every VersionIsInvalidError.
var ErrVersionIsInvalid = errors.New("version is invalid")

// VersionIsInvalidError is returned when an update was computed from a stale
// aggregate version and another writer committed first.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause is like NewVersionIsInvalidError but keeps cause in the message.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, sanitize(e.ParamName)), e.Cause)
}

// Unwrap returns ErrVersionIsInvalid.
func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}
