// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lane-analytics/backend/internal/parser"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/lane-analytics/backend/internal/session"
	"go.uber.org/zap"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
		Fields:  []string{field},
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewMissingInputError is the "no data available" warning shown before a
// file has been uploaded.
func NewMissingInputError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "MISSING_INPUT",
		Message: "no data available",
		Details: "upload a spreadsheet in the file field",
	}
}

// NewSchemaError creates a 422 error naming the required columns that are absent.
func NewSchemaError(se *pipeline.SchemaError) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "SCHEMA_ERROR",
		Message: se.Error(),
		Details: "available columns: " + strings.Join(se.Available, ", "),
		Fields:  se.Missing,
	}
}

// NewLoadError creates a 400 error for files that cannot be read.
func NewLoadError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "LOAD_ERROR",
		Message: "failed to read uploaded file",
		Details: cause.Error(),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// FromProcessError maps upload and pipeline failures to API errors.
func FromProcessError(id string, err error) *APIError {
	var schemaErr *pipeline.SchemaError
	var loadErr *parser.LoadError
	switch {
	case errors.Is(err, pipeline.ErrMissingInput):
		return NewMissingInputError()
	case errors.As(err, &schemaErr):
		return NewSchemaError(schemaErr)
	case errors.As(err, &loadErr), errors.Is(err, parser.ErrUnsupportedFormat):
		return NewLoadError(err)
	case errors.Is(err, session.ErrSessionNotFound):
		return NewNotFoundError("session", id)
	default:
		return NewInternalError("failed to build report", err)
	}
}

// NewErrorHandler returns an echo error handler that renders APIError JSON.
// Unknown errors carry their message in Details only in development.
func NewErrorHandler(logger *zap.Logger, development bool) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if development {
				apiErr.Details = err.Error()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}

// ErrorHandler is the production error handler without logging.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
var ErrorHandler = NewErrorHandler(nil, false)

// RespondWithError is a helper to respond with an APIError
func RespondWithError(c echo.Context, err *APIError) error {
	return c.JSON(err.Status, err)
}
