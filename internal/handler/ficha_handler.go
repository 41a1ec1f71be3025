package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/service"
	"github.com/senaplan/horarios-api/pkg/response"
)

// FichaHandler manages ficha endpoints.
type FichaHandler struct {
	service *service.FichaService
}

// NewFichaHandler constructs handler.
func NewFichaHandler(svc *service.FichaService) *FichaHandler {
	return &FichaHandler{service: svc}
}

// List godoc
// @Summary List fichas en formacion
// @Description Lists fichas in their lective stage whose date window brackets the requested year and quarter.
// @Tags Fichas
// @Produce json
// @Param search query string false "Code or program search"
// @Param anio query int false "Calendar year"
// @Param trimestre query int false "Quarter 1..7"
// @Success 200 {object} response.Envelope
// @Router /fichas [get]
func (h *FichaHandler) List(c *gin.Context) {
	var filter models.FichaFilter
	filter.Term = c.Query("search")
	if year, err := strconv.Atoi(c.DefaultQuery("anio", "0")); err == nil {
		filter.Year = year
	}
	if quarter, err := strconv.Atoi(c.DefaultQuery("trimestre", "0")); err == nil {
		filter.Quarter = quarter
	}

	fichas, err := h.service.ListEnFormacion(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fichas, nil)
}

// RefreshStates godoc
// @Summary Recompute lective states
// @Description Flips en_lectiva for every ficha whose six month productive stage boundary has passed.
// @Tags Fichas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fichas/refresh-states [post]
func (h *FichaHandler) RefreshStates(c *gin.Context) {
	changed, err := h.service.RefreshStates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"actualizadas": changed}, nil)
}
