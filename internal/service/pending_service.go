package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type pendingFichaReader interface {
	FindByID(ctx context.Context, id string) (*models.Ficha, error)
}

type pendingPlanReader interface {
	PlanRowsByFicha(ctx context.Context, fichaID string, trimestre int) ([]models.PlanRow, error)
}

type pendingScheduleReader interface {
	ListAsignacionesUpToQuarter(ctx context.Context, fichaID string, trimestre int) ([]models.Asignacion, error)
}

type pendingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// PendingConfig tunes the pending-competencies query.
type PendingConfig struct {
	WeeksPerQuarter int
	CacheTTL        time.Duration
}

// PendingService answers the next-quarter planning question: which
// competencies of a ficha still owe hours for a quarter, counting every
// schedule committed up to it.
type PendingService struct {
	fichas    pendingFichaReader
	plan      pendingPlanReader
	schedules pendingScheduleReader
	cache     pendingCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       PendingConfig
}

// NewPendingService wires the pending query dependencies.
func NewPendingService(
	fichas pendingFichaReader,
	plan pendingPlanReader,
	schedules pendingScheduleReader,
	cache pendingCache,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg PendingConfig,
) *PendingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeeksPerQuarter <= 0 {
		cfg.WeeksPerQuarter = 12
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &PendingService{
		fichas:    fichas,
		plan:      plan,
		schedules: schedules,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// GetPendingCompetencies computes the pending accounting for one ficha and
// quarter. Results are cached per (ficha, quarter) and invalidated whenever a
// schedule commits or the curriculum is reimported.
func (s *PendingService) GetPendingCompetencies(ctx context.Context, req dto.PendingRequest) ([]dto.CompetenciaPendienteDTO, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pending query")
	}

	key := fmt.Sprintf("pending:%s:%d", req.FichaID, req.Trimestre)
	if s.cache != nil {
		var cached []dto.CompetenciaPendienteDTO
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	if _, err := s.fichas.FindByID(ctx, req.FichaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ficha not found")
		}
		return nil, err
	}

	result, err := s.Compute(ctx, req.FichaID, req.Trimestre)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("pending cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// Compute builds the ledger from the quarter's plan and the committed
// assignments and shapes it for planning.
func (s *PendingService) Compute(ctx context.Context, fichaID string, trimestre int) ([]dto.CompetenciaPendienteDTO, error) {
	plan, err := s.plan.PlanRowsByFicha(ctx, fichaID, trimestre)
	if err != nil {
		return nil, err
	}
	asignaciones, err := s.schedules.ListAsignacionesUpToQuarter(ctx, fichaID, trimestre)
	if err != nil {
		return nil, err
	}

	ledger := buildLedger(plan, asignaciones, s.cfg.WeeksPerQuarter)
	return pendingDTO(ledger), nil
}
