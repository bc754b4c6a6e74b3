package parcel

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"

	"github.com/oklog/ulid/v2"
)

const trackingNumberPrefix = "TRK-"

// TrackingNumber is the public lookup key of a parcel: "TRK-" followed by a
// ULID. ULIDs are unique and sort by creation time.
type TrackingNumber struct {
	value string
}

// NewTrackingNumber generates a fresh tracking number.
func NewTrackingNumber() TrackingNumber {
	return TrackingNumber{value: trackingNumberPrefix + ulid.Make().String()}
}

// ParseTrackingNumber validates a stored or externally supplied tracking
// number. The prefix and ULID are matched case-insensitively and the result
// is normalized to upper case, so callers needing an exact match compare
// String() against their input.
func ParseTrackingNumber(s string) (TrackingNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TrackingNumber{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	if !strings.HasPrefix(strings.ToUpper(s), trackingNumberPrefix) {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"trackingNumber", fmt.Errorf("must start with %s", trackingNumberPrefix))
	}
	id, err := ulid.ParseStrict(s[len(trackingNumberPrefix):])
	if err != nil {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause("trackingNumber", err)
	}
	return TrackingNumber{value: trackingNumberPrefix + id.String()}, nil
}

// String returns the canonical upper-case form.
func (t TrackingNumber) String() string {
	return t.value
}

// IsZero reports whether t is the zero value.
func (t TrackingNumber) IsZero() bool {
	return t.value == ""
}

// Validate returns ValueIsRequiredError for the zero value.
func (t TrackingNumber) Validate() error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	return nil
}
