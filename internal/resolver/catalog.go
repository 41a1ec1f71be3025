package resolver

import (
	"strings"

	"github.com/google/uuid"

	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/pkg/normalize"
)

// Catalog is an in-memory view of one program's competencies and learning
// results, indexed by normalized text. It serves two callers: schedule saves,
// which only look up, and spreadsheet imports, which may also create entries
// that later rows of the same batch must see.
type Catalog struct {
	programaID string

	competencias       []models.Competencia
	resultados         []models.Resultado
	competenciaByNorm  map[string]*models.Competencia
	resultadoNorms     map[string]string
	createdCompetencia []models.Competencia
	createdResultado   []models.Resultado
}

// NewCatalog indexes the given curriculum entities.
func NewCatalog(programaID string, competencias []models.Competencia, resultados []models.Resultado) *Catalog {
	c := &Catalog{
		programaID:        programaID,
		competencias:      competencias,
		resultados:        resultados,
		competenciaByNorm: make(map[string]*models.Competencia, len(competencias)),
		resultadoNorms:    make(map[string]string, len(resultados)),
	}
	for i := range c.competencias {
		c.competenciaByNorm[normalize.Text(c.competencias[i].Nombre)] = &c.competencias[i]
	}
	for i := range c.resultados {
		c.resultadoNorms[c.resultados[i].ID] = normalize.Text(c.resultados[i].Descripcion)
	}
	return c
}

// ResolveCompetencia returns the competency whose normalized name equals the
// normalized input, or nil.
func (c *Catalog) ResolveCompetencia(competencyText string) *models.Competencia {
	norm := normalize.Text(competencyText)
	if norm == "" {
		return nil
	}
	return c.competenciaByNorm[norm]
}

// ResolveResultado maps free text to a canonical learning result. Candidates
// are the results of the matching competency when one exists; when the
// competency text matches nothing the search widens to every result of the
// program, which can pick a similarly worded result from another competency.
// Matching runs exact, then substring in either direction, then shared-token
// count with a minimum of two. Returns nil when every tier misses.
func (c *Catalog) ResolveResultado(competencyText, resultText string) *models.Resultado {
	target := normalize.Text(resultText)
	if target == "" {
		return nil
	}

	candidates := c.resultados
	if comp := c.ResolveCompetencia(competencyText); comp != nil {
		candidates = c.resultadosOf(comp.ID)
	}

	for i := range candidates {
		if c.resultadoNorms[candidates[i].ID] == target {
			return &candidates[i]
		}
	}
	for i := range candidates {
		norm := c.resultadoNorms[candidates[i].ID]
		if strings.Contains(norm, target) || strings.Contains(target, norm) {
			return &candidates[i]
		}
	}
	targetTokens := normalize.Tokens(target)
	for i := range candidates {
		shared := normalize.SharedTokens(targetTokens, normalize.Tokens(c.resultadoNorms[candidates[i].ID]))
		if shared >= 2 {
			return &candidates[i]
		}
	}
	return nil
}

func (c *Catalog) resultadosOf(competenciaID string) []models.Resultado {
	out := make([]models.Resultado, 0, 8)
	for i := range c.resultados {
		if c.resultados[i].CompetenciaID == competenciaID {
			out = append(out, c.resultados[i])
		}
	}
	return out
}

// EnsureCompetencia resolves by normalized name or creates a new competency
// visible to the rest of the import batch.
func (c *Catalog) EnsureCompetencia(competencyText string) *models.Competencia {
	norm := normalize.Text(competencyText)
	if norm == "" {
		return nil
	}
	if comp := c.competenciaByNorm[norm]; comp != nil {
		return comp
	}
	created := models.Competencia{
		ID:         uuid.New().String(),
		ProgramaID: c.programaID,
		Nombre:     strings.TrimSpace(competencyText),
	}
	c.competencias = append(c.competencias, created)
	comp := &c.competencias[len(c.competencias)-1]
	c.competenciaByNorm[norm] = comp
	c.createdCompetencia = append(c.createdCompetencia, created)
	c.reindexCompetencias()
	return comp
}

// EnsureResultado resolves a result by normalized description within the
// competency, creating it when absent.
func (c *Catalog) EnsureResultado(competenciaID, resultText string) *models.Resultado {
	norm := normalize.Text(resultText)
	if norm == "" {
		return nil
	}
	for i := range c.resultados {
		if c.resultados[i].CompetenciaID == competenciaID && c.resultadoNorms[c.resultados[i].ID] == norm {
			return &c.resultados[i]
		}
	}
	created := models.Resultado{
		ID:            uuid.New().String(),
		CompetenciaID: competenciaID,
		Descripcion:   strings.TrimSpace(resultText),
	}
	c.resultados = append(c.resultados, created)
	res := &c.resultados[len(c.resultados)-1]
	c.resultadoNorms[res.ID] = norm
	c.createdResultado = append(c.createdResultado, created)
	return res
}

// appending to c.competencias may move the backing array; the name index
// holds pointers into it and must be rebuilt after growth.
func (c *Catalog) reindexCompetencias() {
	for i := range c.competencias {
		c.competenciaByNorm[normalize.Text(c.competencias[i].Nombre)] = &c.competencias[i]
	}
}

// CreatedCompetencias returns competencies created during this batch, in
// creation order.
func (c *Catalog) CreatedCompetencias() []models.Competencia {
	return c.createdCompetencia
}

// CreatedResultados returns results created during this batch.
func (c *Catalog) CreatedResultados() []models.Resultado {
	return c.createdResultado
}
