package service

import (
	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/scheduling"
	"github.com/senaplan/horarios-api/pkg/normalize"
)

// normalizeDia canonicalizes day-of-week tokens; they are matched as opaque
// normalized strings, never parsed.
func normalizeDia(raw string) string {
	return normalize.Text(raw)
}

// buildLedger folds the quarter's hour plan and the ficha's assignments into
// an hour ledger. Assignments resolved to a result feed that result's bucket;
// assignments resolved only to a competency feed the competency bucket;
// fully unresolved assignments carry no accounting weight.
func buildLedger(plan []models.PlanRow, asignaciones []models.Asignacion, weeksPerQuarter int) *scheduling.HourLedger {
	ledger := scheduling.NewHourLedger()

	labels := make(map[string]models.PlanRow, len(plan))
	for _, row := range plan {
		ledger.AddRequired(row.CompetenciaID, row.Competencia, row.ResultadoID, row.Resultado, float64(row.Horas))
		labels[row.ResultadoID] = row
	}

	for _, a := range asignaciones {
		desde, err := scheduling.ParseClock(a.HoraDesde)
		if err != nil {
			continue
		}
		hasta, err := scheduling.ParseClock(a.HoraHasta)
		if err != nil {
			continue
		}
		hours := scheduling.QuarterHours(desde, hasta, weeksPerQuarter)

		switch {
		case a.ResultadoID != nil:
			if row, ok := labels[*a.ResultadoID]; ok {
				ledger.AddProgrammedResult(row.CompetenciaID, row.Competencia, row.ResultadoID, row.Resultado, hours)
			} else {
				competenciaID := ""
				if a.CompetenciaID != nil {
					competenciaID = *a.CompetenciaID
				}
				ledger.AddProgrammedResult(competenciaID, a.CompetenciaTexto, *a.ResultadoID, a.ResultadoTexto, hours)
			}
		case a.CompetenciaID != nil:
			ledger.AddProgrammedCompetency(*a.CompetenciaID, a.CompetenciaTexto, hours)
		}
	}

	return ledger
}

// pendingSnapshot converts the ledger into the obligations serialized onto
// the schedule: per-result entries for competencies scheduled result by
// result, a single competency entry where hours were block-booked.
func pendingSnapshot(ledger *scheduling.HourLedger, anio, trimestre int) []models.PendingObligation {
	var snapshot []models.PendingObligation

	blockBooked := make(map[string]bool)
	for _, row := range ledger.CompetencyRows() {
		if ledger.HasBlockHours(row.CompetenciaID) {
			blockBooked[row.CompetenciaID] = true
			if row.HorasPendientes > 0 {
				snapshot = append(snapshot, models.PendingObligation{
					Type:           models.ObligationCompetency,
					Competencia:    row.Competencia,
					HorasFaltantes: row.HorasPendientes,
					Trimestre:      trimestre,
					Anio:           anio,
				})
			}
		}
	}

	for _, row := range ledger.ResultRows() {
		if blockBooked[row.CompetenciaID] || row.HorasPendientes <= 0 {
			continue
		}
		snapshot = append(snapshot, models.PendingObligation{
			Type:           models.ObligationResult,
			Competencia:    row.Competencia,
			Resultado:      row.Resultado,
			HorasFaltantes: row.HorasPendientes,
			Trimestre:      trimestre,
			Anio:           anio,
		})
	}

	return snapshot
}

// pendingDTO shapes the ledger as the planning query payload: competencies
// with outstanding hours, each listing only its still-pending results.
func pendingDTO(ledger *scheduling.HourLedger) []dto.CompetenciaPendienteDTO {
	resultsByCompetencia := make(map[string][]dto.ResultadoPendienteDTO)
	for _, row := range ledger.ResultRows() {
		if row.HorasPendientes <= 0 {
			continue
		}
		resultsByCompetencia[row.CompetenciaID] = append(resultsByCompetencia[row.CompetenciaID], dto.ResultadoPendienteDTO{
			ResultadoID:      row.ResultadoID,
			Resultado:        row.Resultado,
			HorasRequeridas:  row.HorasRequeridas,
			HorasProgramadas: row.HorasProgramadas,
			HorasPendientes:  row.HorasPendientes,
			HorasExtra:       row.HorasExtra,
		})
	}

	var out []dto.CompetenciaPendienteDTO
	for _, row := range ledger.CompetencyRows() {
		if row.HorasPendientes <= 0 {
			continue
		}
		out = append(out, dto.CompetenciaPendienteDTO{
			CompetenciaID:    row.CompetenciaID,
			Competencia:      row.Competencia,
			HorasRequeridas:  row.HorasRequeridas,
			HorasProgramadas: row.HorasProgramadas,
			HorasPendientes:  row.HorasPendientes,
			Resultados:       resultsByCompetencia[row.CompetenciaID],
		})
	}
	return out
}
