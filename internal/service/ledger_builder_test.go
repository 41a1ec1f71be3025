package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senaplan/horarios-api/internal/models"
)

func TestPendingSnapshotRoundTrip(t *testing.T) {
	plan := []models.PlanRow{
		{ResultadoID: "r1", CompetenciaID: "c1", Resultado: "IDENTIFICA RIESGOS LABORALES", Competencia: "SALUD OCUPACIONAL", Trimestre: 3, Horas: 40},
		{ResultadoID: "r2", CompetenciaID: "c1", Resultado: "REPORTA CONDICIONES INSEGURAS", Competencia: "SALUD OCUPACIONAL", Trimestre: 3, Horas: 20},
		{ResultadoID: "r3", CompetenciaID: "c2", Resultado: "CLASIFICA RESIDUOS SOLIDOS", Competencia: "GESTION AMBIENTAL", Trimestre: 3, Horas: 30},
	}
	asignaciones := []models.Asignacion{
		// 2h over 12 weeks = 24 against r1's 40
		{Dia: "LUNES", HoraDesde: "08:00", HoraHasta: "10:00", ResultadoID: strPtr("r1"), CompetenciaID: strPtr("c1")},
		// block booking: resolved to the competency only, 12 against c2's 30
		{Dia: "MARTES", HoraDesde: "08:00", HoraHasta: "09:00", CompetenciaID: strPtr("c2"), CompetenciaTexto: "GESTION AMBIENTAL"},
	}

	snapshot := pendingSnapshot(buildLedger(plan, asignaciones, 12), 2026, 3)
	require.Len(t, snapshot, 3)

	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded []models.PendingObligation
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.ElementsMatch(t, []models.PendingObligation{
		{Type: models.ObligationCompetency, Competencia: "GESTION AMBIENTAL", HorasFaltantes: 18, Trimestre: 3, Anio: 2026},
		{Type: models.ObligationResult, Competencia: "SALUD OCUPACIONAL", Resultado: "IDENTIFICA RIESGOS LABORALES", HorasFaltantes: 16, Trimestre: 3, Anio: 2026},
		{Type: models.ObligationResult, Competencia: "SALUD OCUPACIONAL", Resultado: "REPORTA CONDICIONES INSEGURAS", HorasFaltantes: 20, Trimestre: 3, Anio: 2026},
	}, decoded)
}

func TestPendingSnapshotWireFormat(t *testing.T) {
	payload, err := json.Marshal([]models.PendingObligation{
		{Type: models.ObligationCompetency, Competencia: "GESTION AMBIENTAL", HorasFaltantes: 12.5, Trimestre: 4, Anio: 2026},
		{Type: models.ObligationResult, Competencia: "SALUD OCUPACIONAL", Resultado: "IDENTIFICA RIESGOS LABORALES", HorasFaltantes: 16, Trimestre: 4, Anio: 2026},
	})
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &raw))
	require.Len(t, raw, 2)

	assert.Equal(t, "COMPETENCY", raw[0]["type"])
	assert.Equal(t, 12.5, raw[0]["horasFaltantes"])
	assert.Equal(t, float64(4), raw[0]["trimestre"])
	assert.Equal(t, float64(2026), raw[0]["anio"])
	_, hasResultado := raw[0]["resultado"]
	assert.False(t, hasResultado, "competency entries carry no resultado key")

	assert.Equal(t, "RESULT", raw[1]["type"])
	assert.Equal(t, "IDENTIFICA RIESGOS LABORALES", raw[1]["resultado"])
}
