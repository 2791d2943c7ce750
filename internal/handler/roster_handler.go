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

type rosterManager interface {
	Import(ctx context.Context, req dto.ImportRosterRequest) (*dto.ImportRosterResponse, error)
	ListInstructors(ctx context.Context) ([]models.Instructor, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

// RosterHandler exposes roster import and lookup endpoints.
type RosterHandler struct {
	service rosterManager
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// Import replaces the stored roster from a CSV drop directory.
func (h *RosterHandler) Import(c *gin.Context) {
	var req dto.ImportRosterRequest
	// An empty body means "use the configured drop directory".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
			return
		}
	}

	res, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Instructors lists the stored instructors.
func (h *RosterHandler) Instructors(c *gin.Context) {
	instructors, err := h.service.ListInstructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Rooms lists the stored rooms.
func (h *RosterHandler) Rooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// TimeSlots lists the stored time slots in table order.
func (h *RosterHandler) TimeSlots(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
