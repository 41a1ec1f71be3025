package dto

// ResultadoPendienteDTO is the per-result accounting row of the pending query.
type ResultadoPendienteDTO struct {
	ResultadoID      string  `json:"resultadoId"`
	Resultado        string  `json:"resultado"`
	HorasRequeridas  float64 `json:"horasRequeridas"`
	HorasProgramadas float64 `json:"horasProgramadas"`
	HorasPendientes  float64 `json:"horasPendientes"`
	HorasExtra       float64 `json:"horasExtra"`
}

// CompetenciaPendienteDTO groups pending results under their competency,
// carrying the competency-level rollup alongside.
type CompetenciaPendienteDTO struct {
	CompetenciaID    string                  `json:"competenciaId"`
	Competencia      string                  `json:"competencia"`
	HorasRequeridas  float64                 `json:"horasRequeridas"`
	HorasProgramadas float64                 `json:"horasProgramadas"`
	HorasPendientes  float64                 `json:"horasPendientes"`
	Resultados       []ResultadoPendienteDTO `json:"resultados"`
}

// PendingRequest captures the pending-competencies query parameters.
type PendingRequest struct {
	FichaID   string `form:"fichaId" validate:"required,uuid4"`
	Trimestre int    `form:"quarter" validate:"required,min=1,max=7"`
}
