package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/service"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// CatalogHandler serves the reference catalogs used by booking forms.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Rooms godoc
// @Summary List all rooms
// @Tags Catalogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogs/rooms [get]
func (h *CatalogHandler) Rooms(c *gin.Context) {
	rooms, err := h.service.Rooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Instructors godoc
// @Summary List all instructors
// @Tags Catalogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogs/instructors [get]
func (h *CatalogHandler) Instructors(c *gin.Context) {
	instructors, err := h.service.Instructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Courses godoc
// @Summary List all courses
// @Tags Catalogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalogs/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
