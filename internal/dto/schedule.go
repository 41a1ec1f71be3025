package dto

// AssignmentRequest is one row of a batch schedule save.
type AssignmentRequest struct {
	InstructorID string `json:"instructorId" validate:"required,uuid4"`
	Dia          string `json:"dia" validate:"required"`
	HoraDesde    string `json:"horaDesde" validate:"required"`
	HoraHasta    string `json:"horaHasta" validate:"required"`
	Competencia  string `json:"competencia"`
	Resultado    string `json:"resultado"`
}

// SaveScheduleRequest is the batch save payload. The ficha is addressed by id
// or by its SENA code. All rows commit or none do.
type SaveScheduleRequest struct {
	FichaID         string              `json:"fichaId" validate:"required_without=FichaCodigo,omitempty,uuid4"`
	FichaCodigo     string              `json:"fichaCodigo" validate:"required_without=FichaID"`
	Anio            int                 `json:"anio" validate:"required,min=2000,max=2100"`
	Trimestre       int                 `json:"trimestre" validate:"required,min=1,max=7"`
	InstructorLider *string             `json:"instructorLiderId" validate:"omitempty,uuid4"`
	Asignaciones    []AssignmentRequest `json:"asignaciones" validate:"required,min=1,dive"`
}

// SaveScheduleResponse reports the committed schedule and the ficha's new quarter.
type SaveScheduleResponse struct {
	HorarioID          string `json:"horarioId"`
	FichaID            string `json:"fichaId"`
	Anio               int    `json:"anio"`
	Trimestre          int    `json:"trimestre"`
	TrimestreSiguiente int    `json:"trimestreSiguiente"`
	Asignaciones       int    `json:"asignaciones"`
	Pendientes         int    `json:"pendientes"`
}

// ConflictCheckRequest captures the advisory cross-ficha conflict query.
type ConflictCheckRequest struct {
	InstructorID   string `form:"instructorId" validate:"required,uuid4"`
	Dia            string `form:"day" validate:"required"`
	HoraDesde      string `form:"from" validate:"required"`
	HoraHasta      string `form:"to" validate:"required"`
	ExcludeFichaID string `form:"excludeFichaId" validate:"omitempty,uuid4"`
}

// ConflictCheckResponse reports whether the proposed range collides with any
// committed assignment outside the excluded ficha.
type ConflictCheckResponse struct {
	Conflict bool `json:"conflict"`
}
