package errs

import (
	"errors"
	"fmt"
)

// Sentinels for access and conflict errors. Match them with errors.Is.
var (
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrAlreadyExists    = errors.New("already exists")
)

// ForbiddenError reports a role that holds no permission for an operation.
type ForbiddenError struct {
	Role      string
	Operation string
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(role, operation string) *ForbiddenError {
	return &ForbiddenError{Role: role, Operation: operation}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: role %s may not %s", ErrForbidden, sanitize(e.Role), sanitize(e.Operation))
}

// Unwrap returns ErrForbidden.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// UnauthorizedError reports missing or rejected credentials.
type UnauthorizedError struct {
	Reason string
	Cause  error
}

// NewUnauthorizedError creates a UnauthorizedError.
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

// NewUnauthorizedErrorWithCause is like NewUnauthorizedError but keeps cause in the message.
func NewUnauthorizedErrorWithCause(reason string, cause error) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason, Cause: cause}
}

func (e *UnauthorizedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrUnauthorized, sanitize(e.Reason)), e.Cause)
}

// Unwrap returns ErrUnauthorized.
func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// InvalidOperationError reports an administrative action that protection rules refuse,
// such as demoting an admin or blocking one's own account.
type InvalidOperationError struct {
	Reason string
}

// NewInvalidOperationError creates an InvalidOperationError.
func NewInvalidOperationError(reason string) *InvalidOperationError {
	return &InvalidOperationError{Reason: reason}
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidOperation, sanitize(e.Reason))
}

// Unwrap returns ErrInvalidOperation.
func (e *InvalidOperationError) Unwrap() error {
	return ErrInvalidOperation
}

// AlreadyExistsError reports a uniqueness violation.
type AlreadyExistsError struct {
	ParamName string
	Value     any
	Cause     error
}

// NewAlreadyExistsError creates an AlreadyExistsError.
func NewAlreadyExistsError(paramName string, value any) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, Value: value}
}

// NewAlreadyExistsErrorWithCause is like NewAlreadyExistsError but keeps cause in the message.
func NewAlreadyExistsErrorWithCause(paramName string, value any, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, Value: value, Cause: cause}
}

func (e *AlreadyExistsError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s", ErrAlreadyExists, sanitize(e.ParamName), sanitize(fmt.Sprintf("%v", e.Value)))
	return withCause(msg, e.Cause)
}

// Unwrap returns ErrAlreadyExists.
func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}
