// handlers_report.go - Upload and report query handlers
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// ReportDefaults are applied when a request does not set top or matrix.
type ReportDefaults struct {
	TopN          int
	IncludeMatrix bool
}

// ReportHandlerImpl implements the ReportHandler interface
type ReportHandlerImpl struct {
	sessions SessionManager
	profiles *models.ProfileSet
	defaults ReportDefaults
	logger   *zap.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(sessions SessionManager, profiles *models.ProfileSet, defaults ReportDefaults, logger *zap.Logger) ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandlerImpl{
		sessions: sessions,
		profiles: profiles,
		defaults: defaults,
		logger:   logger.Named("api"),
	}
}

type reportRequest struct {
	Profile      string `form:"profile"`
	Origin       string `form:"origin"`
	Destination  string `form:"destination"`
	DeliveryTime string `form:"deliveryTime"`
	Top          int    `form:"top" validate:"gte=0,lte=10000"`
	Matrix       string `form:"matrix" validate:"omitempty,boolean"`
}

// options resolves the request into pipeline options. Explicit column names
// take precedence over a profile and must be given together.
func (h *ReportHandlerImpl) options(c echo.Context, req *reportRequest) (pipeline.Options, error) {
	opts := pipeline.Options{
		TopN:          h.defaults.TopN,
		IncludeMatrix: h.defaults.IncludeMatrix,
	}
	if req.Top > 0 {
		opts.TopN = req.Top
	}
	if req.Matrix != "" {
		opts.IncludeMatrix, _ = strconv.ParseBool(req.Matrix)
	}

	custom := models.FieldConfig{
		Origin:       strings.TrimSpace(req.Origin),
		Destination:  strings.TrimSpace(req.Destination),
		DeliveryTime: strings.TrimSpace(req.DeliveryTime),
	}
	if custom != (models.FieldConfig{}) {
		if err := c.Validate(&custom); err != nil {
			return opts, err
		}
		opts.Fields = custom
		return opts, nil
	}

	fields, ok := h.profiles.Lookup(req.Profile)
	if !ok {
		apiErr := NewValidationError("profile")
		apiErr.Details = "unknown profile: " + req.Profile
		return opts, apiErr
	}
	opts.Fields = fields
	return opts, nil
}

// HandleCreateReport accepts a multipart spreadsheet upload and returns the
// new session with its report
func (h *ReportHandlerImpl) HandleCreateReport(c echo.Context) error {
	return h.upload(c, "")
}

// HandleReplaceReport re-uploads a spreadsheet for an existing session.
// The previous report is discarded.
func (h *ReportHandlerImpl) HandleReplaceReport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	return h.upload(c, id)
}

func (h *ReportHandlerImpl) upload(c echo.Context, id string) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid form", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	opts, err := h.options(c, &req)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return NewMissingInputError()
		}
		return NewBadRequestError("invalid multipart body", err)
	}
	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	ctx := c.Request().Context()
	if id == "" {
		sess, err := h.sessions.Process(ctx, file.Filename, src, opts)
		if err != nil {
			return FromProcessError(id, err)
		}
		return c.JSON(http.StatusCreated, sess)
	}

	sess, err := h.sessions.Replace(ctx, id, file.Filename, src, opts)
	if err != nil {
		return FromProcessError(id, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// report returns the session's report and refreshes its keep-alive.
func (h *ReportHandlerImpl) report(c echo.Context) (*models.ReportSession, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}
	sess, ok := h.sessions.GetSession(id)
	if !ok || sess.Report == nil {
		return nil, NewNotFoundError("session", id)
	}
	h.sessions.TouchSession(id)
	return sess, nil
}

// topParam reads ?top=N, defaulting to the N the report was built with.
func topParam(c echo.Context, report *models.Report) (int, error) {
	raw := c.QueryParam("top")
	if raw == "" {
		return report.TopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewValidationError("top")
	}
	return n, nil
}

type rankingResponse struct {
	Top      int                 `json:"top"`
	Distinct int                 `json:"distinct"`
	Entries  []models.CountEntry `json:"entries"`
}

type laneRankingResponse struct {
	Top      int                `json:"top"`
	Distinct int                `json:"distinct"`
	Entries  []models.LaneEntry `json:"entries"`
}

// HandleGetReport returns the full session including its report
func (h *ReportHandlerImpl) HandleGetReport(c echo.Context) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleGetSummary returns the three scalar metrics
func (h *ReportHandlerImpl) HandleGetSummary(c echo.Context) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Report.Summary)
}

// HandleGetOrigins returns the top-N origins
func (h *ReportHandlerImpl) HandleGetOrigins(c echo.Context) error {
	return h.ranking(c, func(agg *models.Aggregation) *models.FrequencyView[string] { return agg.Origins })
}

// HandleGetDestinations returns the top-N destinations
func (h *ReportHandlerImpl) HandleGetDestinations(c echo.Context) error {
	return h.ranking(c, func(agg *models.Aggregation) *models.FrequencyView[string] { return agg.Destinations })
}

func (h *ReportHandlerImpl) ranking(c echo.Context, view func(*models.Aggregation) *models.FrequencyView[string]) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	n, err := topParam(c, sess.Report)
	if err != nil {
		return err
	}
	v := view(sess.Report.Aggregation)
	return c.JSON(http.StatusOK, rankingResponse{
		Top:      n,
		Distinct: v.Len(),
		Entries:  models.CountEntries(v.TopN(n)),
	})
}

// HandleGetLanes returns the top-N lanes
func (h *ReportHandlerImpl) HandleGetLanes(c echo.Context) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	n, err := topParam(c, sess.Report)
	if err != nil {
		return err
	}
	lanes := sess.Report.Aggregation.Lanes
	return c.JSON(http.StatusOK, laneRankingResponse{
		Top:      n,
		Distinct: lanes.Len(),
		Entries:  models.LaneEntries(lanes.TopN(n)),
	})
}

// HandleGetMatrix returns the lane matrix, building it if the upload did not
// request one
func (h *ReportHandlerImpl) HandleGetMatrix(c echo.Context) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	if sess.Report.Matrix != nil {
		return c.JSON(http.StatusOK, sess.Report.Matrix)
	}
	return c.JSON(http.StatusOK, pipeline.MatrixFor(sess.Report.Aggregation))
}

// HandleGetReportMsgpack returns the report encoded as MessagePack
func (h *ReportHandlerImpl) HandleGetReportMsgpack(c echo.Context) error {
	sess, err := h.report(c)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(sess.Report)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleSessionKeepAlive keeps a session from being cleaned up
func (h *ReportHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	if ok := h.sessions.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteReport discards a session and its report
func (h *ReportHandlerImpl) HandleDeleteReport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	if ok := h.sessions.DeleteSession(id); !ok {
		return NewNotFoundError("session", id)
	}
	h.logger.Debug("session deleted", zap.String("session", id))
	return c.NoContent(http.StatusNoContent)
}
