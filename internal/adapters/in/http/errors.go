package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/pkg/errs"
)

const internalErrorMessage = "internal server error"

// RequestValidationError reports input rejected before it reached a handler.
type RequestValidationError struct {
	Sources []ErrorSource
}

// Error returns the underlying validation message.
func (e *RequestValidationError) Error() string {
	if len(e.Sources) == 0 {
		return "request is invalid"
	}
	return fmt.Sprintf("request is invalid: %s: %s", e.Sources[0].Path, e.Sources[0].Message)
}

func statusFor(err error) int {
	var httpErr *echo.HTTPError
	var validationErr *RequestValidationError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid), errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrInvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorSources lists the members of a joined error, so a request failing
// several field checks reports each of them.
func errorSources(err error) []ErrorSource {
	var validationErr *RequestValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Sources
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	var sources []ErrorSource
	for _, e := range joined.Unwrap() {
		sources = append(sources, ErrorSource{Path: fieldOf(e), Message: e.Error()})
	}
	return sources
}

func fieldOf(err error) string {
	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	var outOfRange *errs.ValueIsOutOfRangeError
	switch {
	case errors.As(err, &required):
		return required.ParamName
	case errors.As(err, &invalid):
		return invalid.ParamName
	case errors.As(err, &outOfRange):
		return outOfRange.ParamName
	default:
		return ""
	}
}

// handleError is installed as echo's HTTPErrorHandler. It maps core errors to
// status codes and logs only 5xx responses.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message = fmt.Sprint(httpErr.Message)
	}
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"route", c.Path(),
			"error", err,
		)
		message = internalErrorMessage
	}

	body := ErrorEnvelope{
		StatusCode:   code,
		Success:      false,
		Message:      message,
		ErrorSources: errorSources(err),
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
	}
}
