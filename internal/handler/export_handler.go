package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senaplan/horarios-api/internal/service"
	"github.com/senaplan/horarios-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// FichaCSV godoc
// @Summary Download a ficha timetable as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Ficha ID"
// @Success 200 {file} file
// @Router /exports/fichas/{id}/schedule.csv [get]
func (h *ExportHandler) FichaCSV(c *gin.Context) {
	fichaID := c.Param("id")
	data, err := h.service.FichaTimetableCSV(c.Request.Context(), fichaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, data, "text/csv", fmt.Sprintf("horario-%s.csv", fichaID))
}

// FichaPDF godoc
// @Summary Download a ficha timetable as PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Ficha ID"
// @Success 200 {file} file
// @Router /exports/fichas/{id}/schedule.pdf [get]
func (h *ExportHandler) FichaPDF(c *gin.Context) {
	fichaID := c.Param("id")
	data, err := h.service.FichaTimetablePDF(c.Request.Context(), fichaID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, data, "application/pdf", fmt.Sprintf("horario-%s.pdf", fichaID))
}

// InstructorCSV godoc
// @Summary Download an instructor timetable as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Instructor ID"
// @Success 200 {file} file
// @Router /exports/instructors/{id}/schedule.csv [get]
func (h *ExportHandler) InstructorCSV(c *gin.Context) {
	instructorID := c.Param("id")
	data, err := h.service.InstructorTimetableCSV(c.Request.Context(), instructorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, data, "text/csv", fmt.Sprintf("horario-instructor-%s.csv", instructorID))
}

func serveDownload(c *gin.Context, data []byte, contentType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
