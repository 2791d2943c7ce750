package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/service"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
	"github.com/deptsched/timetable-api/pkg/response"
)

type timetableManager interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableRunResponse, error)
	ListRuns(ctx context.Context, termID string) ([]models.SolverRun, error)
	GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error)
	DeleteRun(ctx context.Context, id string) error
}

type runExporter interface {
	ExportRun(ctx context.Context, runID, format string) (*service.ExportResult, error)
}

// TimetableHandler exposes solver run endpoints.
type TimetableHandler struct {
	service  timetableManager
	exporter runExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, exporter *service.ExportService) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// Generate runs the assignment engine over the stored roster.
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List returns every run version for a term, newest first.
func (h *TimetableHandler) List(c *gin.Context) {
	runs, err := h.service.ListRuns(c.Request.Context(), c.Query("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// Get returns a run with its rows and failures.
func (h *TimetableHandler) Get(c *gin.Context) {
	res, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Delete removes a run.
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export streams a run rendered as CSV or PDF.
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	res, err := h.exporter.ExportRun(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Payload)
}
