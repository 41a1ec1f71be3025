package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type instructorDirStub struct {
	roster map[string]models.Instructor
}

func (s *instructorDirStub) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	var out []models.Instructor
	for _, ins := range s.roster {
		out = append(out, ins)
	}
	return out, nil
}

func (s *instructorDirStub) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	if ins, ok := s.roster[id]; ok {
		copied := ins
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

type suggestionCurriculumStub struct {
	competencias []models.Competencia
	resultados   []models.Resultado
	planned      map[string]string
}

func (s *suggestionCurriculumStub) ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error) {
	return s.competencias, nil
}

func (s *suggestionCurriculumStub) ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error) {
	return s.resultados, nil
}

func (s *suggestionCurriculumStub) SuggestInstructor(ctx context.Context, fichaID, resultadoID string) (*string, error) {
	if id, ok := s.planned[resultadoID]; ok {
		return &id, nil
	}
	return nil, sql.ErrNoRows
}

func newInstructorFixture() *InstructorService {
	instructors := &instructorDirStub{roster: map[string]models.Instructor{
		instructorA:         {ID: instructorA, NombreCompleto: "Laura Pineda", HorasTrabajadas: 38, HorasMaximas: 40},
		genericInstructorID: {ID: genericInstructorID, NombreCompleto: "Instructor Genérico"},
	}}
	fichas := &fichaStoreStub{ficha: &models.Ficha{ID: fichaID, ProgramaID: programaID, Trimestre: 2}}
	curriculum := &suggestionCurriculumStub{
		competencias: []models.Competencia{{ID: "c1", ProgramaID: programaID, Nombre: "Salud Ocupacional"}},
		resultados:   []models.Resultado{{ID: "r1", CompetenciaID: "c1", Descripcion: "Identifica riesgos laborales"}},
		planned:      map[string]string{"r1": instructorA},
	}
	return NewInstructorService(instructors, fichas, curriculum, nil,
		InstructorConfig{GenericInstructorID: genericInstructorID})
}

func TestInstructorGetHours(t *testing.T) {
	svc := newInstructorFixture()

	resp, err := svc.GetHours(context.Background(), instructorA)
	require.NoError(t, err)
	assert.Equal(t, 38.0, resp.HorasTrabajadas)
	assert.Equal(t, 2.0, resp.HorasDisponibles)

	_, err = svc.GetHours(context.Background(), "99999999-9999-4999-8999-999999999999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInstructorSuggestFromPlan(t *testing.T) {
	svc := newInstructorFixture()

	resp, err := svc.Suggest(context.Background(), fichaID, "identifica  RIESGOS laborales")
	require.NoError(t, err)
	assert.Equal(t, instructorA, resp.InstructorID)
	assert.Equal(t, "r1", resp.ResultadoID)
	assert.False(t, resp.Generic)
}

func TestInstructorSuggestFallsBackToGeneric(t *testing.T) {
	svc := newInstructorFixture()

	resp, err := svc.Suggest(context.Background(), fichaID, "texto sin coincidencia posible aqui")
	require.NoError(t, err)
	assert.Equal(t, genericInstructorID, resp.InstructorID)
	assert.True(t, resp.Generic)
	assert.Equal(t, "Instructor Genérico", resp.NombreCompleto)
}
