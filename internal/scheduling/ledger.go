package scheduling

import "sort"

// HourLedger accumulates planned versus programmed hours per learning result
// for one ficha and quarter. Programmed hours from an assignment land either
// in the bucket of its resolved result or, when only the competency could be
// resolved (bulk block booking), in a competency-level bucket, never both.
type HourLedger struct {
	results      map[string]*resultBucket
	competencies map[string]*competencyBucket
}

type resultBucket struct {
	competenciaID string
	competencia   string
	resultadoID   string
	resultado     string
	required      float64
	programmed    float64
}

type competencyBucket struct {
	competencia string
	programmed  float64
}

// Summary is one accounting row: a result line or a competency rollup.
type Summary struct {
	Tipo             string
	CompetenciaID    string
	Competencia      string
	ResultadoID      string
	Resultado        string
	HorasRequeridas  float64
	HorasProgramadas float64
	HorasPendientes  float64
	HorasExtra       float64
}

// NewHourLedger builds an empty ledger.
func NewHourLedger() *HourLedger {
	return &HourLedger{
		results:      make(map[string]*resultBucket),
		competencies: make(map[string]*competencyBucket),
	}
}

// AddRequired registers planned hours for a result in the queried quarter.
func (l *HourLedger) AddRequired(competenciaID, competencia, resultadoID, resultado string, hours float64) {
	b := l.resultBucket(competenciaID, competencia, resultadoID, resultado)
	b.required += hours
}

// AddProgrammedResult registers scheduled hours resolved to a result.
func (l *HourLedger) AddProgrammedResult(competenciaID, competencia, resultadoID, resultado string, hours float64) {
	b := l.resultBucket(competenciaID, competencia, resultadoID, resultado)
	b.programmed += hours
}

// AddProgrammedCompetency registers scheduled hours that resolved to a
// competency but no specific result.
func (l *HourLedger) AddProgrammedCompetency(competenciaID, competencia string, hours float64) {
	b, ok := l.competencies[competenciaID]
	if !ok {
		b = &competencyBucket{competencia: competencia}
		l.competencies[competenciaID] = b
	}
	b.programmed += hours
}

func (l *HourLedger) resultBucket(competenciaID, competencia, resultadoID, resultado string) *resultBucket {
	b, ok := l.results[resultadoID]
	if !ok {
		b = &resultBucket{
			competenciaID: competenciaID,
			competencia:   competencia,
			resultadoID:   resultadoID,
			resultado:     resultado,
		}
		l.results[resultadoID] = b
	}
	return b
}

// ResultRows returns per-result accounting sorted by competency then result.
func (l *HourLedger) ResultRows() []Summary {
	rows := make([]Summary, 0, len(l.results))
	for _, b := range l.results {
		rows = append(rows, Summary{
			Tipo:             "RESULT",
			CompetenciaID:    b.competenciaID,
			Competencia:      b.competencia,
			ResultadoID:      b.resultadoID,
			Resultado:        b.resultado,
			HorasRequeridas:  Round2(b.required),
			HorasProgramadas: Round2(b.programmed),
			HorasPendientes:  Round2(positive(b.required - b.programmed)),
			HorasExtra:       Round2(positive(b.programmed - b.required)),
		})
	}
	sortSummaries(rows)
	return rows
}

// CompetencyRows aggregates result rows per competency and folds in the
// competency-level bucket from block bookings.
func (l *HourLedger) CompetencyRows() []Summary {
	type agg struct {
		competencia string
		required    float64
		programmed  float64
	}
	aggs := make(map[string]*agg)

	for _, b := range l.results {
		a, ok := aggs[b.competenciaID]
		if !ok {
			a = &agg{competencia: b.competencia}
			aggs[b.competenciaID] = a
		}
		a.required += b.required
		a.programmed += b.programmed
	}
	for id, b := range l.competencies {
		a, ok := aggs[id]
		if !ok {
			a = &agg{competencia: b.competencia}
			aggs[id] = a
		}
		a.programmed += b.programmed
	}

	rows := make([]Summary, 0, len(aggs))
	for id, a := range aggs {
		rows = append(rows, Summary{
			Tipo:             "COMPETENCY",
			CompetenciaID:    id,
			Competencia:      a.competencia,
			HorasRequeridas:  Round2(a.required),
			HorasProgramadas: Round2(a.programmed),
			HorasPendientes:  Round2(positive(a.required - a.programmed)),
			HorasExtra:       Round2(positive(a.programmed - a.required)),
		})
	}
	sortSummaries(rows)
	return rows
}

// HasBlockHours reports whether the competency received block-booked hours
// that could not be attributed to a single result.
func (l *HourLedger) HasBlockHours(competenciaID string) bool {
	b, ok := l.competencies[competenciaID]
	return ok && b.programmed > 0
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func sortSummaries(rows []Summary) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Competencia == rows[j].Competencia {
			return rows[i].Resultado < rows[j].Resultado
		}
		return rows[i].Competencia < rows[j].Competencia
	})
}
