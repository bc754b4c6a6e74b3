package kernel

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Role is the platform role of a user. It drives the access policy table and
// the transition rules; UnknownRole (0) catches uninitialized values.
type Role int

const (
	// UnknownRole is the zero value and fails Validate.
	UnknownRole Role = iota
	RoleAdmin
	RoleSender
	RoleReceiver
	RoleUser
	RoleDeliveryMan
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:     "UNKNOWN",
		RoleAdmin:       "ADMIN",
		RoleSender:      "SENDER",
		RoleReceiver:    "RECEIVER",
		RoleUser:        "USER",
		RoleDeliveryMan: "DELIVERY_MAN",
	}
}

// Roles lists every valid role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSender, RoleReceiver, RoleUser, RoleDeliveryMan}
}

// ParseRole accepts the upper snake case wire names, case-insensitively.
func ParseRole(s string) (Role, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, r := range Roles() {
		if getRoleStrings()[r] == needle {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Validate returns ValueIsInvalidError for UnknownRole and out-of-range values.
func (r Role) Validate() error {
	if r < RoleAdmin || r > RoleDeliveryMan {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire name, e.g. "DELIVERY_MAN", or "UNKNOWN".
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return getRoleStrings()[UnknownRole]
}

// IsAdmin reports whether r is RoleAdmin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
