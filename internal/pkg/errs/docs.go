// Package errs provides standardized error types for the parcel tracking application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
//   - ObjectNotFoundError: an aggregate or record cannot be found
//   - VersionIsInvalidError: a write was based on a stale aggregate version
//   - ForbiddenError, UnauthorizedError: the actor may not perform the operation
//   - InvalidTransitionError: a parcel status change is not allowed
//   - InvalidOperationError: an administrative self-protection rule was violated
//   - AlreadyExistsError: a uniqueness rule was violated
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works across layers
package errs

import "strings"

// sanitize flattens values that end up inside single-line error messages.
func sanitize(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return msg + " (cause: " + sanitize(cause.Error()) + ")"
}
