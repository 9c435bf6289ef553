package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uni-adm/reservation-api/internal/service"
	"github.com/uni-adm/reservation-api/pkg/response"
)

// WorkloadHandler serves instructor workload summaries.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// InstructorWorkload godoc
// @Summary Get workload totals for an instructor
// @Tags Workload
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /workload/instructors/{id} [get]
func (h *WorkloadHandler) InstructorWorkload(c *gin.Context) {
	workload, err := h.service.InstructorWorkload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workload, nil)
}
