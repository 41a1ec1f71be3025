package resolver

import (
	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/pkg/normalize"
)

// Placeholder strings spreadsheets use where an instructor name should be.
// Compared against the normalized cell value.
var instructorDenylist = map[string]struct{}{
	"100%":                {},
	"%":                   {},
	"NO":                  {},
	"N/A":                 {},
	"-":                   {},
	"--":                  {},
	"0":                   {},
	"XX":                  {},
	"XXX":                 {},
	"NINGUNO":             {},
	"SIN":                 {},
	"NO APLICA":           {},
	"NOAPLICA":            {},
	"INSTRUCTOR":          {},
	"INSTRUCTOR GENERICO": {},
}

// InstructorDirectory resolves free-text instructor names against the known
// roster. Unmatched or placeholder names degrade to the generic instructor;
// resolution never creates roster entries.
type InstructorDirectory struct {
	genericID string
	byNorm    map[string]string
	tokens    map[string][]string
	order     []string
}

// NewInstructorDirectory indexes the roster by normalized full name.
func NewInstructorDirectory(genericID string, instructores []models.Instructor) *InstructorDirectory {
	d := &InstructorDirectory{
		genericID: genericID,
		byNorm:    make(map[string]string, len(instructores)),
		tokens:    make(map[string][]string, len(instructores)),
		order:     make([]string, 0, len(instructores)),
	}
	for _, ins := range instructores {
		norm := normalize.Text(ins.NombreCompleto)
		if norm == "" {
			continue
		}
		if _, dup := d.byNorm[norm]; dup {
			continue
		}
		d.byNorm[norm] = ins.ID
		d.tokens[norm] = normalize.Tokens(norm)
		d.order = append(d.order, norm)
	}
	return d
}

// Resolve maps a spreadsheet name cell to an instructor id. Blank and
// denylisted values map straight to the generic id.
func (d *InstructorDirectory) Resolve(nameText string) string {
	norm := normalize.Text(nameText)
	if norm == "" {
		return d.genericID
	}
	if _, garbage := instructorDenylist[norm]; garbage {
		return d.genericID
	}
	if id, ok := d.byNorm[norm]; ok {
		return id
	}

	target := normalize.Tokens(norm)
	for _, candidate := range d.order {
		if normalize.SharedTokens(target, d.tokens[candidate]) >= 2 {
			return d.byNorm[candidate]
		}
	}
	return d.genericID
}
