package models

// Competencia is a named grouping of learning results within a program.
// Created lazily during curriculum imports when an unseen name appears.
type Competencia struct {
	ID         string `db:"id" json:"id"`
	ProgramaID string `db:"programa_id" json:"programa_id"`
	Nombre     string `db:"nombre" json:"nombre"`
}

// Resultado is a learning result belonging to a competency; the finest unit
// against which hours are planned and taught.
type Resultado struct {
	ID            string `db:"id" json:"id"`
	CompetenciaID string `db:"competencia_id" json:"competencia_id"`
	Descripcion   string `db:"descripcion" json:"descripcion"`
}

// PlanHoras records the planned hours for one (ficha, resultado, trimestre).
// The whole plan for a ficha is replaced on each curriculum import.
type PlanHoras struct {
	ID           string  `db:"id" json:"id"`
	FichaID      string  `db:"ficha_id" json:"ficha_id"`
	ResultadoID  string  `db:"resultado_id" json:"resultado_id"`
	Trimestre    int     `db:"trimestre" json:"trimestre"`
	Horas        int     `db:"horas" json:"horas"`
	InstructorID *string `db:"instructor_id" json:"instructor_id,omitempty"`
}

// PlanRow is a plan entry joined with its curriculum labels, as consumed by
// the hour accumulator.
type PlanRow struct {
	ResultadoID   string `db:"resultado_id"`
	CompetenciaID string `db:"competencia_id"`
	Resultado     string `db:"resultado"`
	Competencia   string `db:"competencia"`
	Trimestre     int    `db:"trimestre"`
	Horas         int    `db:"horas"`
}
