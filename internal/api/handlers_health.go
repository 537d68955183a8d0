// handlers_health.go - Health check and profile handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/parser"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	engine  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, engine string) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		engine:  engine,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"engine":  h.engine,
	})
}

// ProfileHandlerImpl implements the ProfileHandler interface
type ProfileHandlerImpl struct {
	profiles *models.ProfileSet
}

func NewProfileHandler(profiles *models.ProfileSet) ProfileHandler {
	return &ProfileHandlerImpl{profiles: profiles}
}

type profileResponse struct {
	Name    string             `json:"name"`
	Fields  models.FieldConfig `json:"fields"`
	Default bool               `json:"default"`
}

// HandleGetProfiles lists the column profiles in name order
func (h *ProfileHandlerImpl) HandleGetProfiles(c echo.Context) error {
	names := parser.ProfileNames(h.profiles)
	out := make([]profileResponse, 0, len(names))
	for _, name := range names {
		out = append(out, profileResponse{
			Name:    name,
			Fields:  h.profiles.Profiles[name],
			Default: name == h.profiles.Default,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"default":  h.profiles.Default,
		"profiles": out,
	})
}
