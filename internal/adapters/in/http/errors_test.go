package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"parceltrack/internal/pkg/errs"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"echo error keeps its code", echo.NewHTTPError(http.StatusTooManyRequests), http.StatusTooManyRequests},
		{"request validation", &RequestValidationError{Sources: []ErrorSource{{Path: "page"}}}, http.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("parcel", "1"), http.StatusNotFound},
		{"stale version", errs.NewVersionIsInvalidError("parcel"), http.StatusConflict},
		{"duplicate", errs.NewAlreadyExistsError("email", "a@b.c"), http.StatusConflict},
		{"unauthorized", errs.NewUnauthorizedError("missing access token"), http.StatusUnauthorized},
		{"forbidden", errs.NewForbiddenError("SENDER", "block parcels"), http.StatusForbidden},
		{"transition", errs.NewInvalidTransitionError("DELIVERED", "PENDING"), http.StatusUnprocessableEntity},
		{"required", errs.NewValueIsRequiredError("name"), http.StatusBadRequest},
		{"invalid", errs.NewValueIsInvalidError("role"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", 500, 1, 100), http.StatusBadRequest},
		{"protected account", errs.NewInvalidOperationError("cannot block an admin"), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("load parcel: %w", errs.NewObjectNotFoundError("parcel", "1")), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestErrorSources_ListsJoinedFields(t *testing.T) {
	err := errors.Join(
		errs.NewValueIsRequiredError("name"),
		errs.NewValueIsOutOfRangeError("weight", -1, 0, 1000),
	)

	sources := errorSources(err)

	if assert.Len(t, sources, 2) {
		assert.Equal(t, "name", sources[0].Path)
		assert.Equal(t, "weight", sources[1].Path)
	}
	assert.Nil(t, errorSources(errs.NewValueIsRequiredError("name")))
}
