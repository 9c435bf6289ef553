package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/service"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// ScheduleHandler serves per-instructor and per-room schedule queries.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// InstructorSchedule godoc
// @Summary Get an instructor's schedule over a date range
// @Tags Schedules
// @Produce json
// @Param id path string true "Instructor ID"
// @Param from query string true "Range start date (YYYY-MM-DD)"
// @Param to query string true "Range end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/instructors/{id} [get]
func (h *ScheduleHandler) InstructorSchedule(c *gin.Context) {
	reservations, err := h.service.InstructorSchedule(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// RoomSchedule godoc
// @Summary Get a room's schedule over a date range
// @Tags Schedules
// @Produce json
// @Param building path string true "Building code"
// @Param number path string true "Room number"
// @Param from query string true "Range start date (YYYY-MM-DD)"
// @Param to query string true "Range end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/rooms/{building}/{number} [get]
func (h *ScheduleHandler) RoomSchedule(c *gin.Context) {
	reservations, err := h.service.RoomSchedule(c.Request.Context(), strings.ToUpper(c.Param("building")), c.Param("number"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}
