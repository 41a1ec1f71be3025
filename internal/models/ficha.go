package models

import "time"

// Ficha represents a training cohort progressing through academic quarters.
type Ficha struct {
	ID          string     `db:"id" json:"id"`
	Codigo      string     `db:"codigo" json:"codigo"`
	ProgramaID  string     `db:"programa_id" json:"programa_id"`
	FechaInicio *time.Time `db:"fecha_inicio" json:"fecha_inicio,omitempty"`
	FechaFin    *time.Time `db:"fecha_fin" json:"fecha_fin,omitempty"`
	EnLectiva   bool       `db:"en_lectiva" json:"en_lectiva"`
	Trimestre   int        `db:"trimestre" json:"trimestre"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FichaDetail joins the owning program onto a ficha row for listings.
type FichaDetail struct {
	Ficha
	ProgramaNombre string `db:"programa_nombre" json:"programa_nombre"`
}

// FichaFilter captures the planning search: fichas en etapa lectiva whose date
// window brackets the requested calendar year/quarter, searchable by code or
// program name.
type FichaFilter struct {
	Term    string
	Year    int
	Quarter int
}
