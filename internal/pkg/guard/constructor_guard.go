package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built through its constructor. Zero-value
// structs carry a zero guard and fail Validate, which lets commands, queries and
// aggregates reject instances that skipped their invariant checks.
//
//	type AssignRoleCommand struct {
//	    userID kernel.UUID
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c AssignRoleCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignRoleCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes Validate.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for guards produced by NewConstructorGuard and
// validationError (or ErrDefaultConstructorGuard when nil) otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
