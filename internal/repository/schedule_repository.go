package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/senaplan/horarios-api/internal/models"
)

// ScheduleRepository provides persistence for schedules and their assignments.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const horarioColumns = `id, ficha_id, anio, trimestre, instructor_lider_id, pendientes, created_at`

const horarioDetailColumns = `h.id, h.ficha_id, h.anio, h.trimestre, h.instructor_lider_id, h.pendientes, h.created_at,
f.codigo AS codigo_ficha, p.denominacion AS programa_nombre, i.nombre_completo AS instructor_lider`

const asignacionColumns = `id, horario_id, ficha_id, instructor_id, dia, hora_desde, hora_hasta,
competencia_texto, resultado_texto, competencia_id, resultado_id, created_at`

// FindByFichaYearQuarter loads the schedule committed for the triple, if any.
func (r *ScheduleRepository) FindByFichaYearQuarter(ctx context.Context, fichaID string, anio, trimestre int) (*models.Horario, error) {
	query := fmt.Sprintf("SELECT %s FROM horarios WHERE ficha_id = $1 AND anio = $2 AND trimestre = $3", horarioColumns)
	var horario models.Horario
	if err := r.db.GetContext(ctx, &horario, query, fichaID, anio, trimestre); err != nil {
		return nil, err
	}
	return &horario, nil
}

// CreateHorario inserts the schedule header inside the batch transaction.
func (r *ScheduleRepository) CreateHorario(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error {
	if horario.ID == "" {
		horario.ID = uuid.NewString()
	}
	if horario.CreatedAt.IsZero() {
		horario.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO horarios (id, ficha_id, anio, trimestre, instructor_lider_id, pendientes, created_at)
VALUES (:id, :ficha_id, :anio, :trimestre, :instructor_lider_id, :pendientes, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, horario); err != nil {
		return fmt.Errorf("insert horario: %w", err)
	}
	return nil
}

// CreateAsignaciones inserts the batch's assignments.
func (r *ScheduleRepository) CreateAsignaciones(ctx context.Context, exec sqlx.ExtContext, asignaciones []models.Asignacion) error {
	if len(asignaciones) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO asignaciones (id, horario_id, ficha_id, instructor_id, dia, hora_desde, hora_hasta,
competencia_texto, resultado_texto, competencia_id, resultado_id, created_at)
VALUES (:id, :horario_id, :ficha_id, :instructor_id, :dia, :hora_desde, :hora_hasta,
:competencia_texto, :resultado_texto, :competencia_id, :resultado_id, :created_at)`

	for i := range asignaciones {
		a := &asignaciones[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, a); err != nil {
			return fmt.Errorf("insert asignacion: %w", err)
		}
	}
	return nil
}

// ListAsignacionesByFichaInstructorDia returns committed assignments of one
// ficha for an instructor on a day, the candidate set for the committed-state
// conflict check.
func (r *ScheduleRepository) ListAsignacionesByFichaInstructorDia(ctx context.Context, fichaID, instructorID, dia string) ([]models.Asignacion, error) {
	query := fmt.Sprintf("SELECT %s FROM asignaciones WHERE ficha_id = $1 AND instructor_id = $2 AND dia = $3", asignacionColumns)
	var asignaciones []models.Asignacion
	if err := r.db.SelectContext(ctx, &asignaciones, query, fichaID, instructorID, dia); err != nil {
		return nil, fmt.Errorf("list asignaciones by ficha/instructor/dia: %w", err)
	}
	return asignaciones, nil
}

// ExistsGlobalOverlap reports whether any committed assignment outside the
// excluded ficha overlaps the proposed range. "HH:MM" strings compare
// correctly as text.
func (r *ScheduleRepository) ExistsGlobalOverlap(ctx context.Context, instructorID, dia, desde, hasta, excludeFichaID string) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM asignaciones
WHERE instructor_id = $1 AND dia = $2 AND ficha_id <> $3
  AND ((hora_desde >= $4 AND hora_desde < $5)
    OR (hora_hasta > $4 AND hora_hasta <= $5)
    OR (hora_desde <= $4 AND hora_hasta >= $5)))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, instructorID, dia, excludeFichaID, desde, hasta); err != nil {
		return false, fmt.Errorf("global overlap check: %w", err)
	}
	return exists, nil
}

// ListHorarios returns schedule headers, newest first.
func (r *ScheduleRepository) ListHorarios(ctx context.Context) ([]models.HorarioDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM horarios h
JOIN fichas f ON f.id = h.ficha_id
JOIN programas p ON p.id = f.programa_id
LEFT JOIN instructores i ON i.id = h.instructor_lider_id
ORDER BY h.created_at DESC`, horarioDetailColumns)
	var horarios []models.HorarioDetail
	if err := r.db.SelectContext(ctx, &horarios, query); err != nil {
		return nil, fmt.Errorf("list horarios: %w", err)
	}
	return horarios, nil
}

// ListHorariosByFicha returns a ficha's schedule headers ordered by quarter.
func (r *ScheduleRepository) ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM horarios h
JOIN fichas f ON f.id = h.ficha_id
JOIN programas p ON p.id = f.programa_id
LEFT JOIN instructores i ON i.id = h.instructor_lider_id
WHERE h.ficha_id = $1 ORDER BY h.anio ASC, h.trimestre ASC`, horarioDetailColumns)
	var horarios []models.HorarioDetail
	if err := r.db.SelectContext(ctx, &horarios, query, fichaID); err != nil {
		return nil, fmt.Errorf("list horarios by ficha: %w", err)
	}
	return horarios, nil
}

// ListAsignacionesUpToQuarter returns every assignment of the ficha's
// schedules with quarter at most the given one. Feeds the carry-forward sum
// of programmed hours.
func (r *ScheduleRepository) ListAsignacionesUpToQuarter(ctx context.Context, fichaID string, trimestre int) ([]models.Asignacion, error) {
	const query = `SELECT a.id, a.horario_id, a.ficha_id, a.instructor_id, a.dia, a.hora_desde, a.hora_hasta,
a.competencia_texto, a.resultado_texto, a.competencia_id, a.resultado_id, a.created_at
FROM asignaciones a
JOIN horarios h ON h.id = a.horario_id
WHERE a.ficha_id = $1 AND h.trimestre <= $2`
	var asignaciones []models.Asignacion
	if err := r.db.SelectContext(ctx, &asignaciones, query, fichaID, trimestre); err != nil {
		return nil, fmt.Errorf("list asignaciones up to quarter: %w", err)
	}
	return asignaciones, nil
}

// ListAsignacionesByHorario returns a schedule's assignments for display and
// export, ordered by day then start time.
func (r *ScheduleRepository) ListAsignacionesByHorario(ctx context.Context, horarioID string) ([]models.AsignacionDetail, error) {
	const query = `SELECT a.id, a.horario_id, a.ficha_id, a.instructor_id, a.dia, a.hora_desde, a.hora_hasta,
a.competencia_texto, a.resultado_texto, a.competencia_id, a.resultado_id, a.created_at,
i.nombre_completo AS nombre_instructor, f.codigo AS codigo_ficha
FROM asignaciones a
JOIN instructores i ON i.id = a.instructor_id
JOIN fichas f ON f.id = a.ficha_id
WHERE a.horario_id = $1
ORDER BY a.dia ASC, a.hora_desde ASC`
	var asignaciones []models.AsignacionDetail
	if err := r.db.SelectContext(ctx, &asignaciones, query, horarioID); err != nil {
		return nil, fmt.Errorf("list asignaciones by horario: %w", err)
	}
	return asignaciones, nil
}

// ListAsignacionesByInstructor returns an instructor's committed assignments
// across fichas.
func (r *ScheduleRepository) ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error) {
	const query = `SELECT a.id, a.horario_id, a.ficha_id, a.instructor_id, a.dia, a.hora_desde, a.hora_hasta,
a.competencia_texto, a.resultado_texto, a.competencia_id, a.resultado_id, a.created_at,
i.nombre_completo AS nombre_instructor, f.codigo AS codigo_ficha
FROM asignaciones a
JOIN instructores i ON i.id = a.instructor_id
JOIN fichas f ON f.id = a.ficha_id
WHERE a.instructor_id = $1
ORDER BY a.dia ASC, a.hora_desde ASC`
	var asignaciones []models.AsignacionDetail
	if err := r.db.SelectContext(ctx, &asignaciones, query, instructorID); err != nil {
		return nil, fmt.Errorf("list asignaciones by instructor: %w", err)
	}
	return asignaciones, nil
}
