package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/senaplan/horarios-api/internal/models"
)

// InstructorRepository provides persistence for instructors.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new instructor repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

func (r *InstructorRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const instructorColumns = `id, nombre_completo, activo, horas_trabajadas, horas_maximas, created_at, updated_at`

// List returns instructors matching the directory filter.
func (r *InstructorRepository) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	base := "FROM instructores WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("nombre_completo ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("activo = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY nombre_completo ASC LIMIT %d", instructorColumns, base, limit)
	var instructores []models.Instructor
	if err := r.db.SelectContext(ctx, &instructores, query, args...); err != nil {
		return nil, fmt.Errorf("list instructores: %w", err)
	}
	return instructores, nil
}

// ListActive returns the full active roster for name resolution.
func (r *InstructorRepository) ListActive(ctx context.Context) ([]models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructores WHERE activo = TRUE ORDER BY nombre_completo ASC", instructorColumns)
	var instructores []models.Instructor
	if err := r.db.SelectContext(ctx, &instructores, query); err != nil {
		return nil, fmt.Errorf("list active instructores: %w", err)
	}
	return instructores, nil
}

// FindByID loads an instructor by id.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM instructores WHERE id = $1", instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// LockForUpdate loads the given instructors inside the transaction with their
// rows locked, so worked-hour accumulation reads a stable value.
func (r *InstructorRepository) LockForUpdate(ctx context.Context, exec sqlx.ExtContext, ids []string) ([]models.Instructor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM instructores WHERE id = ANY($1) ORDER BY id ASC FOR UPDATE", instructorColumns)
	var instructores []models.Instructor
	if err := sqlx.SelectContext(ctx, r.exec(exec), &instructores, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("lock instructores: %w", err)
	}
	return instructores, nil
}

// UpdateHorasTrabajadas writes the accumulated worked hours.
func (r *InstructorRepository) UpdateHorasTrabajadas(ctx context.Context, exec sqlx.ExtContext, id string, horas float64) error {
	const query = `UPDATE instructores SET horas_trabajadas = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.exec(exec).ExecContext(ctx, query, horas, id); err != nil {
		return fmt.Errorf("update horas trabajadas: %w", err)
	}
	return nil
}
