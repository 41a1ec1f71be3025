package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
	"github.com/senaplan/horarios-api/pkg/export"
)

type exportStoreStub struct {
	horarios     []models.HorarioDetail
	asignaciones map[string][]models.AsignacionDetail
}

func (s *exportStoreStub) ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error) {
	return s.horarios, nil
}

func (s *exportStoreStub) ListAsignacionesByHorario(ctx context.Context, horarioID string) ([]models.AsignacionDetail, error) {
	return s.asignaciones[horarioID], nil
}

func (s *exportStoreStub) ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error) {
	var out []models.AsignacionDetail
	for _, list := range s.asignaciones {
		out = append(out, list...)
	}
	return out, nil
}

func exportFixture() (*ExportService, *exportStoreStub) {
	store := &exportStoreStub{
		horarios: []models.HorarioDetail{
			{Horario: models.Horario{ID: "h1", FichaID: fichaID, Anio: 2026, Trimestre: 1}, CodigoFicha: "2558104"},
		},
		asignaciones: map[string][]models.AsignacionDetail{
			"h1": {{
				Asignacion: models.Asignacion{
					Dia: "LUNES", HoraDesde: "08:00", HoraHasta: "10:00",
					CompetenciaTexto: "Salud Ocupacional", ResultadoTexto: "Identifica riesgos",
				},
				NombreInstructor: "Laura Pineda",
				CodigoFicha:      "2558104",
			}},
		},
	}
	return NewExportService(store, export.NewCSVExporter(), export.NewPDFExporter(), nil), store
}

func TestFichaTimetableCSV(t *testing.T) {
	svc, _ := exportFixture()

	out, err := svc.FichaTimetableCSV(context.Background(), fichaID)
	require.NoError(t, err)

	body := string(out)
	assert.True(t, strings.HasPrefix(body, "Trimestre,Dia,Desde,Hasta,Instructor,Competencia,Resultado"))
	assert.Contains(t, body, "LUNES,08:00,10:00,Laura Pineda")
}

func TestFichaTimetablePDF(t *testing.T) {
	svc, _ := exportFixture()

	out, err := svc.FichaTimetablePDF(context.Background(), fichaID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestFichaTimetableNoSchedules(t *testing.T) {
	svc, store := exportFixture()
	store.horarios = nil

	_, err := svc.FichaTimetableCSV(context.Background(), fichaID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInstructorTimetableCSV(t *testing.T) {
	svc, _ := exportFixture()

	out, err := svc.InstructorTimetableCSV(context.Background(), instructorA)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2558104,LUNES,08:00,10:00")
}
