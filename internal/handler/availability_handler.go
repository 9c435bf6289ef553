package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/models"
	"github.com/uni-adm/reservation-api/internal/service"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// AvailabilityHandler serves room availability searches.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// AvailableRooms godoc
// @Summary List rooms free for a time window
// @Tags Availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Start time (HH:MM:SS)"
// @Param end query string true "End time (HH:MM:SS)"
// @Param minCapacity query int false "Minimum room capacity"
// @Success 200 {object} response.Envelope
// @Router /availability/rooms [get]
func (h *AvailabilityHandler) AvailableRooms(c *gin.Context) {
	window := models.TimeWindow{
		Date:      c.Query("date"),
		StartTime: c.Query("start"),
		EndTime:   c.Query("end"),
	}

	var minCapacity *int
	if raw := c.Query("minCapacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "minCapacity must be an integer"))
			return
		}
		minCapacity = &capacity
	}

	rooms, err := h.service.FindAvailableRooms(c.Request.Context(), window, minCapacity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}
