package user

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// ActivityStatus is the account state an admin can toggle. Only Active
// accounts may log in or act.
type ActivityStatus int

const (
	// UnknownActivity is the zero value and fails Validate.
	UnknownActivity ActivityStatus = iota
	Active
	Inactive
	Blocked
)

func getActivityStrings() map[ActivityStatus]string {
	return map[ActivityStatus]string{
		UnknownActivity: "UNKNOWN",
		Active:          "ACTIVE",
		Inactive:        "INACTIVE",
		Blocked:         "BLOCKED",
	}
}

// ParseActivityStatus accepts "ACTIVE", "INACTIVE" and "BLOCKED",
// case-insensitively.
func ParseActivityStatus(s string) (ActivityStatus, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range []ActivityStatus{Active, Inactive, Blocked} {
		if getActivityStrings()[a] == needle {
			return a, nil
		}
	}
	return UnknownActivity, errs.NewValueIsInvalidErrorWithCause("isActive", fmt.Errorf("%q is not a valid account status", s))
}

// Validate returns ValueIsInvalidError for UnknownActivity and out-of-range values.
func (a ActivityStatus) Validate() error {
	if a < Active || a > Blocked {
		return errs.NewValueIsInvalidErrorWithCause("isActive", fmt.Errorf("%d is not a valid account status", a))
	}
	return nil
}

// String returns the wire name, or "UNKNOWN".
func (a ActivityStatus) String() string {
	if s, ok := getActivityStrings()[a]; ok {
		return s
	}
	return getActivityStrings()[UnknownActivity]
}
