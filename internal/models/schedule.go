package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Obligation type discriminators for pending snapshot entries.
const (
	ObligationResult     = "RESULT"
	ObligationCompetency = "COMPETENCY"
)

// Horario is a committed schedule for one (ficha, year, quarter). At most one
// exists per triple. Pendientes holds the pending-obligations snapshot taken
// at creation time; the next quarter's planning view reads it back verbatim.
type Horario struct {
	ID                string         `db:"id" json:"id"`
	FichaID           string         `db:"ficha_id" json:"ficha_id"`
	Anio              int            `db:"anio" json:"anio"`
	Trimestre         int            `db:"trimestre" json:"trimestre"`
	InstructorLiderID *string        `db:"instructor_lider_id" json:"instructor_lider_id,omitempty"`
	Pendientes        types.JSONText `db:"pendientes" json:"pendientes,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
}

// HorarioDetail joins ficha and lead-instructor display fields for listings.
type HorarioDetail struct {
	Horario
	CodigoFicha     string  `db:"codigo_ficha" json:"codigo_ficha"`
	ProgramaNombre  string  `db:"programa_nombre" json:"programa_nombre"`
	InstructorLider *string `db:"instructor_lider" json:"instructor_lider,omitempty"`
}

// Asignacion is one instructor/day/time-range entry within a schedule. The
// free-text curriculum labels always persist; the resolved ids stay null when
// the resolver found no match.
type Asignacion struct {
	ID               string    `db:"id" json:"id"`
	HorarioID        string    `db:"horario_id" json:"horario_id"`
	FichaID          string    `db:"ficha_id" json:"ficha_id"`
	InstructorID     string    `db:"instructor_id" json:"instructor_id"`
	Dia              string    `db:"dia" json:"dia"`
	HoraDesde        string    `db:"hora_desde" json:"hora_desde"`
	HoraHasta        string    `db:"hora_hasta" json:"hora_hasta"`
	CompetenciaTexto string    `db:"competencia_texto" json:"competencia_texto"`
	ResultadoTexto   string    `db:"resultado_texto" json:"resultado_texto"`
	CompetenciaID    *string   `db:"competencia_id" json:"competencia_id,omitempty"`
	ResultadoID      *string   `db:"resultado_id" json:"resultado_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// AsignacionDetail joins instructor and ficha display fields.
type AsignacionDetail struct {
	Asignacion
	NombreInstructor string `db:"nombre_instructor" json:"nombre_instructor"`
	CodigoFicha      string `db:"codigo_ficha" json:"codigo_ficha"`
}

// PendingObligation is one carry-forward entry in a schedule's snapshot:
// hours still owed for a result (or a whole competency for block bookings)
// as of the moment the schedule was committed.
type PendingObligation struct {
	Type           string  `json:"type"`
	Competencia    string  `json:"competencia"`
	Resultado      string  `json:"resultado,omitempty"`
	HorasFaltantes float64 `json:"horasFaltantes"`
	Trimestre      int     `json:"trimestre"`
	Anio           int     `json:"anio"`
}
