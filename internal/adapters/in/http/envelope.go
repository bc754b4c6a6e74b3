package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/core/domain/model/kernel"
)

// Envelope wraps every successful response.
type Envelope struct {
	StatusCode int       `json:"statusCode"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       any       `json:"data"`
	Meta       *PageMeta `json:"meta,omitempty"`
}

// PageMeta is the pagination block of listing responses.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Limit      int   `json:"limit"`
}

func newPageMeta(m kernel.PageMeta) *PageMeta {
	return &PageMeta{Total: m.Total, Page: m.Page, TotalPages: m.TotalPages, Limit: m.Limit}
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode   int           `json:"statusCode"`
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	ErrorSources []ErrorSource `json:"errorSources,omitempty"`
}

// ErrorSource points at one offending field. Path is empty for errors not tied to a field.
type ErrorSource struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{StatusCode: code, Success: true, Message: message, Data: data})
}

func respondPage(c echo.Context, message string, data any, meta kernel.PageMeta) error {
	return c.JSON(http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
		Meta:       newPageMeta(meta),
	})
}
