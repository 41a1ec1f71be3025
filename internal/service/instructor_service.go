package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/resolver"
	"github.com/senaplan/horarios-api/internal/scheduling"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type instructorStore interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type suggestionFichaReader interface {
	FindByID(ctx context.Context, id string) (*models.Ficha, error)
}

type suggestionCurriculumReader interface {
	ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error)
	ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error)
	SuggestInstructor(ctx context.Context, fichaID, resultadoID string) (*string, error)
}

// InstructorConfig tunes instructor lookups.
type InstructorConfig struct {
	GenericInstructorID string
}

// InstructorService serves the instructor directory, quota queries and the
// resolver-backed suggestion for a result text.
type InstructorService struct {
	instructors instructorStore
	fichas      suggestionFichaReader
	curriculum  suggestionCurriculumReader
	logger      *zap.Logger
	cfg         InstructorConfig
}

// NewInstructorService wires instructor dependencies.
func NewInstructorService(
	instructors instructorStore,
	fichas suggestionFichaReader,
	curriculum suggestionCurriculumReader,
	logger *zap.Logger,
	cfg InstructorConfig,
) *InstructorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{
		instructors: instructors,
		fichas:      fichas,
		curriculum:  curriculum,
		logger:      logger,
		cfg:         cfg,
	}
}

// List returns the instructor directory.
func (s *InstructorService) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	return s.instructors.List(ctx, filter)
}

// GetHours reports an instructor's quota usage.
func (s *InstructorService) GetHours(ctx context.Context, id string) (*dto.InstructorHoursResponse, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, err
	}
	return &dto.InstructorHoursResponse{
		InstructorID:     instructor.ID,
		NombreCompleto:   instructor.NombreCompleto,
		HorasTrabajadas:  instructor.HorasTrabajadas,
		HorasMaximas:     instructor.HorasMaximas,
		HorasDisponibles: scheduling.Round2(instructor.HorasMaximas - instructor.HorasTrabajadas),
	}, nil
}

// Suggest resolves the result text against the ficha's program and returns
// the instructor recorded on the curriculum plan for it. Falls back to the
// generic instructor when the text or the plan gives nothing.
func (s *InstructorService) Suggest(ctx context.Context, fichaID, resultText string) (*dto.SuggestInstructorResponse, error) {
	ficha, err := s.fichas.FindByID(ctx, fichaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ficha not found")
		}
		return nil, err
	}

	competencias, err := s.curriculum.ListCompetencias(ctx, ficha.ProgramaID)
	if err != nil {
		return nil, err
	}
	resultados, err := s.curriculum.ListResultados(ctx, ficha.ProgramaID)
	if err != nil {
		return nil, err
	}
	catalog := resolver.NewCatalog(ficha.ProgramaID, competencias, resultados)

	resultado := catalog.ResolveResultado("", resultText)
	if resultado == nil {
		return s.genericSuggestion(ctx, "")
	}

	instructorID, err := s.curriculum.SuggestInstructor(ctx, fichaID, resultado.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.genericSuggestion(ctx, resultado.ID)
		}
		return nil, err
	}

	instructor, err := s.instructors.FindByID(ctx, *instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.genericSuggestion(ctx, resultado.ID)
		}
		return nil, err
	}

	return &dto.SuggestInstructorResponse{
		InstructorID:   instructor.ID,
		NombreCompleto: instructor.NombreCompleto,
		ResultadoID:    resultado.ID,
	}, nil
}

func (s *InstructorService) genericSuggestion(ctx context.Context, resultadoID string) (*dto.SuggestInstructorResponse, error) {
	resp := &dto.SuggestInstructorResponse{
		InstructorID: s.cfg.GenericInstructorID,
		ResultadoID:  resultadoID,
		Generic:      true,
	}
	if s.cfg.GenericInstructorID == "" {
		return resp, nil
	}
	if instructor, err := s.instructors.FindByID(ctx, s.cfg.GenericInstructorID); err == nil {
		resp.NombreCompleto = instructor.NombreCompleto
	}
	return resp, nil
}
