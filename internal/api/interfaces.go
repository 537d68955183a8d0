// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/pipeline"
)

// ReportHandler handles upload and report query operations
type ReportHandler interface {
	HandleCreateReport(c echo.Context) error
	HandleReplaceReport(c echo.Context) error
	HandleGetReport(c echo.Context) error
	HandleGetSummary(c echo.Context) error
	HandleGetOrigins(c echo.Context) error
	HandleGetDestinations(c echo.Context) error
	HandleGetLanes(c echo.Context) error
	HandleGetMatrix(c echo.Context) error
	HandleGetReportMsgpack(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleDeleteReport(c echo.Context) error
}

// ProfileHandler exposes the configured column conventions
type ProfileHandler interface {
	HandleGetProfiles(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	Process(ctx context.Context, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error)
	Replace(ctx context.Context, id, fileName string, r io.Reader, opts pipeline.Options) (*models.ReportSession, error)
	GetSession(id string) (*models.ReportSession, bool)
	TouchSession(id string) bool
	DeleteSession(id string) bool
}
