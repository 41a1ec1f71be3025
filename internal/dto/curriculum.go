package dto

// ImportRequest accompanies the multipart curriculum upload.
type ImportRequest struct {
	FichaID   string `form:"fichaId" validate:"required,uuid4"`
	Anio      int    `form:"anio" validate:"required,min=2000,max=2100"`
	Trimestre int    `form:"trimestre" validate:"required,min=1,max=7"`
}

// ImportResponse summarizes an import batch and returns the competencies
// planned for the requested quarter.
type ImportResponse struct {
	FilasLeidas         int                       `json:"filasLeidas"`
	PlanFilas           int                       `json:"planFilas"`
	CompetenciasCreadas int                       `json:"competenciasCreadas"`
	ResultadosCreados   int                       `json:"resultadosCreados"`
	Competencias        []CompetenciaPendienteDTO `json:"competencias"`
}

// SuggestInstructorResponse carries the resolver-backed instructor suggestion.
type SuggestInstructorResponse struct {
	InstructorID   string `json:"instructorId"`
	NombreCompleto string `json:"nombreCompleto"`
	ResultadoID    string `json:"resultadoId,omitempty"`
	Generic        bool   `json:"generic"`
}

// InstructorHoursResponse reports quota usage for one instructor.
type InstructorHoursResponse struct {
	InstructorID     string  `json:"instructorId"`
	NombreCompleto   string  `json:"nombreCompleto"`
	HorasTrabajadas  float64 `json:"horasTrabajadas"`
	HorasMaximas     float64 `json:"horasMaximas"`
	HorasDisponibles float64 `json:"horasDisponibles"`
}
