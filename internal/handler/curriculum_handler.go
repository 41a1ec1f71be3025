package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senaplan/horarios-api/internal/dto"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
	"github.com/senaplan/horarios-api/pkg/response"
)

type curriculumImporter interface {
	Import(ctx context.Context, req dto.ImportRequest, file io.Reader) (*dto.ImportResponse, error)
}

type pendingQuerier interface {
	GetPendingCompetencies(ctx context.Context, req dto.PendingRequest) ([]dto.CompetenciaPendienteDTO, error)
}

// CurriculumHandler manages curriculum import and pending queries.
type CurriculumHandler struct {
	importer    curriculumImporter
	pending     pendingQuerier
	maxFileSize int64
}

// NewCurriculumHandler constructs handler.
func NewCurriculumHandler(importer curriculumImporter, pending pendingQuerier, maxFileSize int64) *CurriculumHandler {
	return &CurriculumHandler{importer: importer, pending: pending, maxFileSize: maxFileSize}
}

// Import godoc
// @Summary Import a curriculum plan workbook
// @Description Replaces the ficha's quarter-by-quarter plan with the uploaded spreadsheet, creating missing competencies and results.
// @Tags Curriculum
// @Accept mpfd
// @Produce json
// @Param fichaId formData string true "Ficha ID"
// @Param anio formData int true "Calendar year"
// @Param trimestre formData int true "Quarter 1..7"
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /curriculum/import [post]
func (h *CurriculumHandler) Import(c *gin.Context) {
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize)
	}

	var req dto.ImportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form fields"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing workbook file"))
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "workbook exceeds the size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable workbook file"))
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), req, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Pending godoc
// @Summary Pending competencies for a quarter
// @Description Lists the competencies of a ficha that still owe hours for the requested quarter, counting every committed schedule up to it.
// @Tags Curriculum
// @Produce json
// @Param fichaId query string true "Ficha ID"
// @Param quarter query int true "Quarter 1..7"
// @Success 200 {object} response.Envelope
// @Router /curriculum/pending [get]
func (h *CurriculumHandler) Pending(c *gin.Context) {
	var req dto.PendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	result, err := h.pending.GetPendingCompetencies(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
