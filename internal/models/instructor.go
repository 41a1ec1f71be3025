package models

import "time"

// Instructor represents a teaching instructor and their workload quota.
// HorasTrabajadas accumulates on every committed schedule batch and is only
// ever corrected manually.
type Instructor struct {
	ID              string    `db:"id" json:"id"`
	NombreCompleto  string    `db:"nombre_completo" json:"nombre_completo"`
	Activo          bool      `db:"activo" json:"activo"`
	HorasTrabajadas float64   `db:"horas_trabajadas" json:"horas_trabajadas"`
	HorasMaximas    float64   `db:"horas_maximas" json:"horas_maximas"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorFilter captures directory search options.
type InstructorFilter struct {
	Search string
	Active *bool
	Limit  int
}
