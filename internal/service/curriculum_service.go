package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/ingest"
	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/resolver"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type curriculumFichaReader interface {
	FindByID(ctx context.Context, id string) (*models.Ficha, error)
}

type curriculumStore interface {
	ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error)
	ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error)
	CreateCompetencias(ctx context.Context, exec sqlx.ExtContext, competencias []models.Competencia) error
	CreateResultados(ctx context.Context, exec sqlx.ExtContext, resultados []models.Resultado) error
	ReplacePlan(ctx context.Context, exec sqlx.ExtContext, fichaID string, rows []models.PlanHoras) error
}

type curriculumInstructorReader interface {
	ListActive(ctx context.Context) ([]models.Instructor, error)
}

type planReader interface {
	Read(src io.Reader) ([]ingest.Row, error)
}

type pendingComputer interface {
	Compute(ctx context.Context, fichaID string, trimestre int) ([]dto.CompetenciaPendienteDTO, error)
}

type importMetrics interface {
	ObserveImportRows(rows int)
}

// CurriculumConfig tunes curriculum imports.
type CurriculumConfig struct {
	GenericInstructorID string
}

// CurriculumService runs the two-phase curriculum import: resolve or create
// every competency and result into an in-memory catalog first, then replace
// the ficha's quarter hour plan referencing only catalog ids.
type CurriculumService struct {
	fichas      curriculumFichaReader
	curriculum  curriculumStore
	instructors curriculumInstructorReader
	reader      planReader
	pending     pendingComputer
	tx          txProvider
	cache       cacheInvalidator
	metrics     importMetrics
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         CurriculumConfig
}

// NewCurriculumService wires the import dependencies.
func NewCurriculumService(
	fichas curriculumFichaReader,
	curriculum curriculumStore,
	instructors curriculumInstructorReader,
	reader planReader,
	pending pendingComputer,
	tx txProvider,
	cache cacheInvalidator,
	metrics importMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg CurriculumConfig,
) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{
		fichas:      fichas,
		curriculum:  curriculum,
		instructors: instructors,
		reader:      reader,
		pending:     pending,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Import ingests a planning workbook for a ficha and swaps its quarter hour
// plan wholesale. Returns the quarter's resulting pending accounting.
func (s *CurriculumService) Import(ctx context.Context, req dto.ImportRequest, file io.Reader) (*dto.ImportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import request")
	}

	ficha, err := s.fichas.FindByID(ctx, req.FichaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ficha not found")
		}
		return nil, fmt.Errorf("load ficha: %w", err)
	}

	rows, err := s.reader.Read(file)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook contains no curriculum rows")
	}
	fillForwardCompetencia(rows)

	catalog, directory, err := s.loadResolvers(ctx, ficha.ProgramaID)
	if err != nil {
		return nil, err
	}

	// phase 1: every row resolves against the catalog, creating entries the
	// following rows of the same batch can see.
	type resolvedRow struct {
		resultadoID  string
		instructorID *string
		horas        [7]float64
	}
	resolved := make([]resolvedRow, 0, len(rows))
	for _, row := range rows {
		competencia := catalog.EnsureCompetencia(row.CompetenciaText)
		if competencia == nil {
			continue
		}
		resultado := catalog.EnsureResultado(competencia.ID, row.ResultadoText)
		if resultado == nil {
			continue
		}
		resolved = append(resolved, resolvedRow{
			resultadoID:  resultado.ID,
			instructorID: s.resolveInstructor(directory, row.InstructorText),
			horas:        row.HorasTrimestre,
		})
	}

	// phase 2: the plan rows reference only catalog-resolved ids.
	plan := make([]models.PlanHoras, 0, len(resolved))
	for _, row := range resolved {
		for q := 0; q < 7; q++ {
			horas := int(math.Round(row.horas[q]))
			if horas <= 0 {
				continue
			}
			plan = append(plan, models.PlanHoras{
				FichaID:      ficha.ID,
				ResultadoID:  row.resultadoID,
				Trimestre:    q + 1,
				Horas:        horas,
				InstructorID: row.instructorID,
			})
		}
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.curriculum.CreateCompetencias(ctx, tx, catalog.CreatedCompetencias()); err != nil {
		return nil, err
	}
	if err := s.curriculum.CreateResultados(ctx, tx, catalog.CreatedResultados()); err != nil {
		return nil, err
	}
	if err := s.curriculum.ReplacePlan(ctx, tx, ficha.ID, plan); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import tx: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("pending:%s:*", ficha.ID)); err != nil {
			s.logger.Warn("pending cache invalidation failed", zap.String("ficha_id", ficha.ID), zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveImportRows(len(rows))
	}

	s.logger.Info("curriculum imported",
		zap.String("ficha_id", ficha.ID),
		zap.Int("rows", len(rows)),
		zap.Int("plan_rows", len(plan)),
		zap.Int("competencias_creadas", len(catalog.CreatedCompetencias())),
		zap.Int("resultados_creados", len(catalog.CreatedResultados())))

	competencias, err := s.pending.Compute(ctx, ficha.ID, req.Trimestre)
	if err != nil {
		return nil, err
	}

	return &dto.ImportResponse{
		FilasLeidas:         len(rows),
		PlanFilas:           len(plan),
		CompetenciasCreadas: len(catalog.CreatedCompetencias()),
		ResultadosCreados:   len(catalog.CreatedResultados()),
		Competencias:        competencias,
	}, nil
}

func (s *CurriculumService) loadResolvers(ctx context.Context, programaID string) (*resolver.Catalog, *resolver.InstructorDirectory, error) {
	competencias, err := s.curriculum.ListCompetencias(ctx, programaID)
	if err != nil {
		return nil, nil, err
	}
	resultados, err := s.curriculum.ListResultados(ctx, programaID)
	if err != nil {
		return nil, nil, err
	}
	roster, err := s.instructors.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	return resolver.NewCatalog(programaID, competencias, resultados),
		resolver.NewInstructorDirectory(s.cfg.GenericInstructorID, roster), nil
}

func (s *CurriculumService) resolveInstructor(directory *resolver.InstructorDirectory, nameText string) *string {
	id := directory.Resolve(nameText)
	if id == "" {
		return nil
	}
	return &id
}

// fillForwardCompetencia propagates the last non-blank competency cell down
// to the rows below it, the way merged cells export from the workbook.
func fillForwardCompetencia(rows []ingest.Row) {
	last := ""
	for i := range rows {
		if strings.TrimSpace(rows[i].CompetenciaText) == "" {
			rows[i].CompetenciaText = last
		} else {
			last = rows[i].CompetenciaText
		}
	}
}
