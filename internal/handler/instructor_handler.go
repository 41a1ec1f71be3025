package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/service"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
	"github.com/senaplan/horarios-api/pkg/response"
)

// InstructorHandler manages instructor directory endpoints.
type InstructorHandler struct {
	service *service.InstructorService
}

// NewInstructorHandler constructs handler.
func NewInstructorHandler(svc *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{service: svc}
}

// List godoc
// @Summary List instructors
// @Tags Instructors
// @Produce json
// @Param search query string false "Name search"
// @Param active query bool false "Filter by active state"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	var filter models.InstructorFilter
	filter.Search = c.Query("search")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filter.Limit = limit
	}

	instructors, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Hours godoc
// @Summary Instructor quota usage
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/hours [get]
func (h *InstructorHandler) Hours(c *gin.Context) {
	hours, err := h.service.GetHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}

// Suggest godoc
// @Summary Suggest an instructor for a result text
// @Description Resolves the free text against the ficha's program and returns the instructor the curriculum plan records for it.
// @Tags Instructors
// @Produce json
// @Param fichaId query string true "Ficha ID"
// @Param resultado query string true "Result free text"
// @Success 200 {object} response.Envelope
// @Router /instructors/suggest [get]
func (h *InstructorHandler) Suggest(c *gin.Context) {
	fichaID := c.Query("fichaId")
	resultText := c.Query("resultado")
	if fichaID == "" || resultText == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "fichaId and resultado are required"))
		return
	}
	suggestion, err := h.service.Suggest(c.Request.Context(), fichaID, resultText)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestion, nil)
}
