package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/senaplan/horarios-api/internal/models"
)

// CurriculumRepository provides persistence for programs, competencies,
// learning results and quarter hour plans.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new curriculum repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

func (r *CurriculumRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListCompetencias returns every competency of a program.
func (r *CurriculumRepository) ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error) {
	const query = `SELECT id, programa_id, nombre FROM competencias WHERE programa_id = $1 ORDER BY nombre ASC`
	var competencias []models.Competencia
	if err := r.db.SelectContext(ctx, &competencias, query, programaID); err != nil {
		return nil, fmt.Errorf("list competencias: %w", err)
	}
	return competencias, nil
}

// ListResultados returns every learning result of a program.
func (r *CurriculumRepository) ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error) {
	const query = `SELECT r.id, r.competencia_id, r.descripcion
FROM resultados r JOIN competencias c ON c.id = r.competencia_id
WHERE c.programa_id = $1 ORDER BY r.descripcion ASC`
	var resultados []models.Resultado
	if err := r.db.SelectContext(ctx, &resultados, query, programaID); err != nil {
		return nil, fmt.Errorf("list resultados: %w", err)
	}
	return resultados, nil
}

// CreateCompetencias inserts competencies created during an import batch.
func (r *CurriculumRepository) CreateCompetencias(ctx context.Context, exec sqlx.ExtContext, competencias []models.Competencia) error {
	if len(competencias) == 0 {
		return nil
	}
	const query = `INSERT INTO competencias (id, programa_id, nombre) VALUES (:id, :programa_id, :nombre)`
	target := r.exec(exec)
	for i := range competencias {
		if _, err := sqlx.NamedExecContext(ctx, target, query, &competencias[i]); err != nil {
			return fmt.Errorf("insert competencia: %w", err)
		}
	}
	return nil
}

// CreateResultados inserts learning results created during an import batch.
func (r *CurriculumRepository) CreateResultados(ctx context.Context, exec sqlx.ExtContext, resultados []models.Resultado) error {
	if len(resultados) == 0 {
		return nil
	}
	const query = `INSERT INTO resultados (id, competencia_id, descripcion) VALUES (:id, :competencia_id, :descripcion)`
	target := r.exec(exec)
	for i := range resultados {
		if _, err := sqlx.NamedExecContext(ctx, target, query, &resultados[i]); err != nil {
			return fmt.Errorf("insert resultado: %w", err)
		}
	}
	return nil
}

// ReplacePlan swaps the ficha's whole quarter hour plan for the imported one.
func (r *CurriculumRepository) ReplacePlan(ctx context.Context, exec sqlx.ExtContext, fichaID string, rows []models.PlanHoras) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM plan_horas WHERE ficha_id = $1`, fichaID); err != nil {
		return fmt.Errorf("clear plan horas: %w", err)
	}

	const query = `INSERT INTO plan_horas (id, ficha_id, resultado_id, trimestre, horas, instructor_id)
VALUES (:id, :ficha_id, :resultado_id, :trimestre, :horas, :instructor_id)`
	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, row); err != nil {
			return fmt.Errorf("insert plan horas: %w", err)
		}
	}
	return nil
}

// PlanRowsByFicha returns the planned hours for one ficha and quarter joined
// with their curriculum labels.
func (r *CurriculumRepository) PlanRowsByFicha(ctx context.Context, fichaID string, trimestre int) ([]models.PlanRow, error) {
	const query = `SELECT ph.resultado_id, re.competencia_id, re.descripcion AS resultado,
co.nombre AS competencia, ph.trimestre, ph.horas
FROM plan_horas ph
JOIN resultados re ON re.id = ph.resultado_id
JOIN competencias co ON co.id = re.competencia_id
WHERE ph.ficha_id = $1 AND ph.trimestre = $2 AND ph.horas > 0
ORDER BY co.nombre ASC, re.descripcion ASC`
	var rows []models.PlanRow
	if err := r.db.SelectContext(ctx, &rows, query, fichaID, trimestre); err != nil {
		return nil, fmt.Errorf("plan rows by ficha: %w", err)
	}
	return rows, nil
}

// SuggestInstructor returns the instructor recorded on the ficha's plan for a
// result, preferring the earliest quarter that names one.
func (r *CurriculumRepository) SuggestInstructor(ctx context.Context, fichaID, resultadoID string) (*string, error) {
	const query = `SELECT instructor_id FROM plan_horas
WHERE ficha_id = $1 AND resultado_id = $2 AND instructor_id IS NOT NULL
ORDER BY trimestre ASC LIMIT 1`
	var instructorID string
	if err := r.db.GetContext(ctx, &instructorID, query, fichaID, resultadoID); err != nil {
		return nil, err
	}
	return &instructorID, nil
}
