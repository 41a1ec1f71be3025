package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
	"github.com/senaplan/horarios-api/pkg/export"
)

type exportScheduleReader interface {
	ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error)
	ListAsignacionesByHorario(ctx context.Context, horarioID string) ([]models.AsignacionDetail, error)
	ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders committed timetables as CSV or PDF.
type ExportService struct {
	schedules exportScheduleReader
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules exportScheduleReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

var timetableHeaders = []string{"Trimestre", "Dia", "Desde", "Hasta", "Instructor", "Competencia", "Resultado"}

// FichaTimetableCSV renders the whole schedule history of a ficha as CSV.
func (s *ExportService) FichaTimetableCSV(ctx context.Context, fichaID string) ([]byte, error) {
	data, _, err := s.fichaDataset(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(data)
}

// FichaTimetablePDF renders the whole schedule history of a ficha as PDF.
func (s *ExportService) FichaTimetablePDF(ctx context.Context, fichaID string) ([]byte, error) {
	data, codigo, err := s.fichaDataset(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(data, fmt.Sprintf("Horario ficha %s", codigo))
}

func (s *ExportService) fichaDataset(ctx context.Context, fichaID string) (export.Dataset, string, error) {
	horarios, err := s.schedules.ListHorariosByFicha(ctx, fichaID)
	if err != nil {
		return export.Dataset{}, "", err
	}
	if len(horarios) == 0 {
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrNotFound, "ficha has no committed schedules")
	}

	data := export.Dataset{Headers: timetableHeaders}
	for _, horario := range horarios {
		asignaciones, err := s.schedules.ListAsignacionesByHorario(ctx, horario.ID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, a := range asignaciones {
			data.Rows = append(data.Rows, map[string]string{
				"Trimestre":   fmt.Sprintf("%d", horario.Trimestre),
				"Dia":         a.Dia,
				"Desde":       a.HoraDesde,
				"Hasta":       a.HoraHasta,
				"Instructor":  a.NombreInstructor,
				"Competencia": a.CompetenciaTexto,
				"Resultado":   a.ResultadoTexto,
			})
		}
	}
	return data, horarios[0].CodigoFicha, nil
}

// InstructorTimetableCSV renders an instructor's committed assignments as CSV.
func (s *ExportService) InstructorTimetableCSV(ctx context.Context, instructorID string) ([]byte, error) {
	asignaciones, err := s.schedules.ListAsignacionesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"Ficha", "Dia", "Desde", "Hasta", "Competencia", "Resultado"}}
	for _, a := range asignaciones {
		data.Rows = append(data.Rows, map[string]string{
			"Ficha":       a.CodigoFicha,
			"Dia":         a.Dia,
			"Desde":       a.HoraDesde,
			"Hasta":       a.HoraHasta,
			"Competencia": a.CompetenciaTexto,
			"Resultado":   a.ResultadoTexto,
		})
	}
	return s.csv.Render(data)
}
