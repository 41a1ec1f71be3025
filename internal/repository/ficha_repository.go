package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/senaplan/horarios-api/internal/models"
)

// FichaRepository provides persistence for fichas (training cohorts).
type FichaRepository struct {
	db *sqlx.DB
}

// NewFichaRepository creates a new ficha repository.
func NewFichaRepository(db *sqlx.DB) *FichaRepository {
	return &FichaRepository{db: db}
}

func (r *FichaRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const fichaDetailColumns = `f.id, f.codigo, f.programa_id, f.fecha_inicio, f.fecha_fin,
f.en_lectiva, f.trimestre, f.created_at, f.updated_at, p.denominacion AS programa_nombre`

// ListEnFormacion returns fichas in their lectiva stage whose formation window
// brackets the requested calendar year/quarter, optionally filtered by a
// search term over the code or the program name.
func (r *FichaRepository) ListEnFormacion(ctx context.Context, filter models.FichaFilter) ([]models.FichaDetail, error) {
	base := `FROM fichas f JOIN programas p ON p.id = f.programa_id WHERE f.en_lectiva = TRUE`
	var conditions []string
	var args []interface{}

	if filter.Year > 0 && filter.Quarter > 0 {
		// start of the requested calendar quarter
		ref := time.Date(filter.Year, time.Month((filter.Quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		conditions = append(conditions, fmt.Sprintf("f.fecha_inicio <= $%d", len(args)+1))
		args = append(args, ref)
		conditions = append(conditions, fmt.Sprintf("f.fecha_fin >= $%d", len(args)+1))
		args = append(args, ref)
	}
	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf("(f.codigo ILIKE $%d OR p.denominacion ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Term+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY f.codigo ASC", fichaDetailColumns, base)
	var fichas []models.FichaDetail
	if err := r.db.SelectContext(ctx, &fichas, query, args...); err != nil {
		return nil, fmt.Errorf("list fichas en formacion: %w", err)
	}
	return fichas, nil
}

// FindByID loads a ficha by id.
func (r *FichaRepository) FindByID(ctx context.Context, id string) (*models.Ficha, error) {
	const query = `SELECT id, codigo, programa_id, fecha_inicio, fecha_fin, en_lectiva, trimestre, created_at, updated_at
FROM fichas WHERE id = $1`
	var ficha models.Ficha
	if err := r.db.GetContext(ctx, &ficha, query, id); err != nil {
		return nil, err
	}
	return &ficha, nil
}

// FindByCodigo loads a ficha by its SENA code.
func (r *FichaRepository) FindByCodigo(ctx context.Context, codigo string) (*models.Ficha, error) {
	const query = `SELECT id, codigo, programa_id, fecha_inicio, fecha_fin, en_lectiva, trimestre, created_at, updated_at
FROM fichas WHERE codigo = $1`
	var ficha models.Ficha
	if err := r.db.GetContext(ctx, &ficha, query, codigo); err != nil {
		return nil, err
	}
	return &ficha, nil
}

// UpdateTrimestre advances the ficha's current quarter. Runs inside the batch
// save transaction when exec is provided.
func (r *FichaRepository) UpdateTrimestre(ctx context.Context, exec sqlx.ExtContext, fichaID string, trimestre int) error {
	const query = `UPDATE fichas SET trimestre = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.exec(exec).ExecContext(ctx, query, trimestre, fichaID); err != nil {
		return fmt.Errorf("update ficha trimestre: %w", err)
	}
	return nil
}

// RefreshLectivaStates recomputes en_lectiva for every ficha: a ficha stays
// lectiva while today is at most six months before its end date. Returns the
// number of rows whose state changed.
func (r *FichaRepository) RefreshLectivaStates(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE fichas
SET en_lectiva = ($1::date <= (fecha_fin - INTERVAL '6 months')), updated_at = NOW()
WHERE fecha_fin IS NOT NULL
  AND en_lectiva IS DISTINCT FROM ($1::date <= (fecha_fin - INTERVAL '6 months'))`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("refresh lectiva states: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("refresh lectiva states rows affected: %w", err)
	}
	return affected, nil
}
