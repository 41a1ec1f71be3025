package ingest

import (
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/senaplan/horarios-api/pkg/errors"
)

// Row is one raw curriculum row as it appears in the planning spreadsheet.
// Cell extraction only; entity resolution and fill-forward happen upstream.
type Row struct {
	Line            int
	CompetenciaText string
	Orden           int
	ResultadoText   string
	DuracionHoras   float64
	HorasTrimestre  [7]float64
	InstructorText  string
}

// Column positions in the SENA planning workbook (1-based).
const (
	colCompetencia = 4
	colOrden       = 5
	colResultado   = 6
	colDuracion    = 7
	colPrimerTrim  = 8
	colInstructor  = 35
)

// Reader extracts curriculum rows from an xlsx workbook.
type Reader struct {
	sheetName  string
	headerRows int
}

// NewReader builds a reader for the configured sheet layout.
func NewReader(sheetName string, headerRows int) *Reader {
	if sheetName == "" {
		sheetName = "Hoja1"
	}
	return &Reader{sheetName: sheetName, headerRows: headerRows}
}

// Read parses the workbook and returns every row that carries a result text.
// Rows with a blank competency cell are returned as-is; the caller applies
// fill-forward from the previous non-blank row.
func (r *Reader) Read(src io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "cannot open workbook")
	}
	defer f.Close()

	raw, err := f.GetRows(r.sheetName)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "sheet not found in workbook")
	}

	rows := make([]Row, 0, len(raw))
	for i, cells := range raw {
		if i < r.headerRows {
			continue
		}
		row := Row{
			Line:            i + 1,
			CompetenciaText: cell(cells, colCompetencia),
			Orden:           parseInt(cell(cells, colOrden)),
			ResultadoText:   cell(cells, colResultado),
			DuracionHoras:   parseFloat(cell(cells, colDuracion)),
			InstructorText:  cell(cells, colInstructor),
		}
		for q := 0; q < 7; q++ {
			row.HorasTrimestre[q] = parseFloat(cell(cells, colPrimerTrim+q))
		}
		if strings.TrimSpace(row.ResultadoText) == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell returns the 1-based column value, tolerating short rows.
func cell(cells []string, col int) string {
	if col-1 >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// parseFloat tolerates comma decimal separators common in exported sheets.
func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
