package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/models"
)

type fichaStore interface {
	ListEnFormacion(ctx context.Context, filter models.FichaFilter) ([]models.FichaDetail, error)
	RefreshLectivaStates(ctx context.Context, now time.Time) (int64, error)
}

// FichaService serves ficha planning listings and state housekeeping.
type FichaService struct {
	fichas fichaStore
	logger *zap.Logger
}

// NewFichaService wires ficha dependencies.
func NewFichaService(fichas fichaStore, logger *zap.Logger) *FichaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FichaService{fichas: fichas, logger: logger}
}

// ListEnFormacion returns fichas available for planning.
func (s *FichaService) ListEnFormacion(ctx context.Context, filter models.FichaFilter) ([]models.FichaDetail, error) {
	return s.fichas.ListEnFormacion(ctx, filter)
}

// RefreshStates recomputes the lectiva flag for every ficha. A ficha leaves
// its lectiva stage six months before its end date.
func (s *FichaService) RefreshStates(ctx context.Context) (int64, error) {
	affected, err := s.fichas.RefreshLectivaStates(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.logger.Info("ficha lectiva states refreshed", zap.Int64("changed", affected))
	}
	return affected, nil
}
