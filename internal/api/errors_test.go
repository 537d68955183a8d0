// errors_test.go - Tests for API error mapping
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lane-analytics/backend/internal/parser"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/lane-analytics/backend/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestFromProcessError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing input", pipeline.ErrMissingInput, http.StatusBadRequest, "MISSING_INPUT"},
		{"schema", fmt.Errorf("run: %w", &pipeline.SchemaError{Missing: []string{"DEL TIME"}}), http.StatusUnprocessableEntity, "SCHEMA_ERROR"},
		{"load", &parser.LoadError{Loader: "xlsx", Err: errors.New("zip: not a valid zip file")}, http.StatusBadRequest, "LOAD_ERROR"},
		{"unsupported", fmt.Errorf("%w: a.doc", parser.ErrUnsupportedFormat), http.StatusBadRequest, "LOAD_ERROR"},
		{"not found", session.ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromProcessError("abc", tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestNewSchemaError(t *testing.T) {
	apiErr := NewSchemaError(&pipeline.SchemaError{
		Missing:   []string{"Origin Airport"},
		Available: []string{"ORIG", "DEST"},
	})
	assert.Equal(t, []string{"Origin Airport"}, apiErr.Fields)
	assert.Equal(t, "missing required field(s): Origin Airport", apiErr.Message)
	assert.Equal(t, "available columns: ORIG, DEST", apiErr.Details)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		development bool
		wantStatus  int
		wantBody    string
		notInBody   string
	}{
		{
			name:       "api error",
			err:        NewNotFoundError("session", "x"),
			wantStatus: http.StatusNotFound,
			wantBody:   `"code":"NOT_FOUND"`,
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `"code":"HTTP_ERROR"`,
		},
		{
			name:        "unknown error in development",
			err:         errors.New("disk on fire"),
			development: true,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    "disk on fire",
		},
		{
			name:       "unknown error in production",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"code":"UNKNOWN_ERROR"`,
			notInBody:  "disk on fire",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewErrorHandler(nil, tt.development)(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.notInBody != "" {
				assert.NotContains(t, rec.Body.String(), tt.notInBody)
			}
		})
	}
}
