package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/models"
	"github.com/uni-adm/reservation-api/internal/service"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// ConflictHandler exposes conflict previews so clients can check a slot
// before submitting a booking.
type ConflictHandler struct {
	service *service.ConflictService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(svc *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{service: svc}
}

// RoomConflicts godoc
// @Summary Preview room conflicts for a time window
// @Tags Conflicts
// @Produce json
// @Param building query string true "Building code"
// @Param room query string true "Room number"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Start time (HH:MM:SS)"
// @Param end query string true "End time (HH:MM:SS)"
// @Param excludeId query string false "Reservation ID to exclude"
// @Success 200 {object} response.Envelope
// @Router /conflicts/room [get]
func (h *ConflictHandler) RoomConflicts(c *gin.Context) {
	window := models.TimeWindow{
		Date:      c.Query("date"),
		StartTime: c.Query("start"),
		EndTime:   c.Query("end"),
	}
	conflicts, err := h.service.RoomConflicts(c.Request.Context(), strings.ToUpper(c.Query("building")), c.Query("room"), window, c.Query("excludeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// InstructorConflicts godoc
// @Summary Preview instructor conflicts for a time window
// @Tags Conflicts
// @Produce json
// @Param instructorId query string true "Instructor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Start time (HH:MM:SS)"
// @Param end query string true "End time (HH:MM:SS)"
// @Param excludeId query string false "Reservation ID to exclude"
// @Success 200 {object} response.Envelope
// @Router /conflicts/instructor [get]
func (h *ConflictHandler) InstructorConflicts(c *gin.Context) {
	window := models.TimeWindow{
		Date:      c.Query("date"),
		StartTime: c.Query("start"),
		EndTime:   c.Query("end"),
	}
	conflicts, err := h.service.InstructorConflicts(c.Request.Context(), c.Query("instructorId"), window, c.Query("excludeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
