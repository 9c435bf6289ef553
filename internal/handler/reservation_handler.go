package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/models"
	"github.com/uni-adm/reservation-api/internal/service"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// ReservationHandler manages reservation endpoints.
type ReservationHandler struct {
	service *service.ReservationService
}

// NewReservationHandler constructs handler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// List godoc
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param building query string false "Filter by building"
// @Param room query string false "Filter by room number"
// @Param courseId query string false "Filter by course"
// @Param instructorId query string false "Filter by instructor"
// @Param activityType query string false "Filter by activity type"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	var filter models.ReservationFilter
	filter.Building = strings.ToUpper(c.Query("building"))
	filter.RoomNumber = c.Query("room")
	filter.CourseID = c.Query("courseId")
	filter.InstructorID = c.Query("instructorId")
	filter.ActivityType = strings.ToUpper(c.Query("activityType"))
	filter.Date = c.Query("date")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	reservations, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, pagination)
}

// Get godoc
// @Summary Get reservation
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	res, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Create godoc
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflicting reservations"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Created(c, res)
}

// Update godoc
// @Summary Update reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.UpdateReservationRequest true "Reservation payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflicting reservations"
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c *gin.Context) {
	var req service.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	res, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// respondBookingError surfaces the conflicting reservations in the response
// body so clients can show the user what is blocking the slot.
func respondBookingError(c *gin.Context, err error) {
	var conflictErr *models.ReservationConflictError
	if errors.As(err, &conflictErr) {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, response.Envelope{Error: appErr, Data: conflictErr})
		return
	}
	response.Error(c, err)
}

// Delete godoc
// @Summary Delete reservation
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
