package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
	"github.com/senaplan/horarios-api/pkg/response"
)

type scheduleService interface {
	SaveSchedule(ctx context.Context, req dto.SaveScheduleRequest) (*dto.SaveScheduleResponse, error)
	CheckConflict(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	ListHorarios(ctx context.Context) ([]models.HorarioDetail, error)
	ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error)
	ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error)
}

// ScheduleHandler manages schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Save godoc
// @Summary Save a quarter schedule batch
// @Description Commits all assignments of a quarter atomically; a save for the next quarter advances the ficha.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Schedule batch"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.SaveSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List committed schedules
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	horarios, err := h.service.ListHorarios(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, horarios, nil)
}

// CheckConflict godoc
// @Summary Advisory cross-ficha conflict check
// @Description Reports whether the proposed instructor slot collides with a committed assignment of another ficha.
// @Tags Schedules
// @Produce json
// @Param instructorId query string true "Instructor ID"
// @Param day query string true "Day of week"
// @Param from query string true "Start time HH:MM"
// @Param to query string true "End time HH:MM"
// @Param excludeFichaId query string false "Ficha to exclude"
// @Success 200 {object} response.Envelope
// @Router /schedules/conflict-check [get]
func (h *ScheduleHandler) CheckConflict(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	result, err := h.service.CheckConflict(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListByFicha godoc
// @Summary List schedules of a ficha
// @Tags Schedules
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {object} response.Envelope
// @Router /fichas/{id}/schedules [get]
func (h *ScheduleHandler) ListByFicha(c *gin.Context) {
	horarios, err := h.service.ListHorariosByFicha(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, horarios, nil)
}

// ListByInstructor godoc
// @Summary List committed assignments of an instructor
// @Tags Schedules
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/schedule [get]
func (h *ScheduleHandler) ListByInstructor(c *gin.Context) {
	asignaciones, err := h.service.ListAsignacionesByInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asignaciones, nil)
}
