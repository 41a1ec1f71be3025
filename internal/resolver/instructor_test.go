package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/senaplan/horarios-api/internal/models"
)

const genericID = "ins-generico"

func testDirectory() *InstructorDirectory {
	return NewInstructorDirectory(genericID, []models.Instructor{
		{ID: "ins-1", NombreCompleto: "Laura Marcela Pineda Rojas"},
		{ID: "ins-2", NombreCompleto: "Carlos Andrés Gómez"},
	})
}

func TestResolveInstructorExact(t *testing.T) {
	d := testDirectory()
	assert.Equal(t, "ins-1", d.Resolve("laura marcela PINEDA rojas"))
	assert.Equal(t, "ins-2", d.Resolve("Carlos Andres Gomez"))
}

func TestResolveInstructorTokenOverlap(t *testing.T) {
	d := testDirectory()
	// partial name with two significant shared tokens
	assert.Equal(t, "ins-1", d.Resolve("PINEDA ROJAS"))
	// one shared token degrades to the generic instructor
	assert.Equal(t, genericID, d.Resolve("Pineda Martínez Sandoval"))
}

func TestResolveInstructorPlaceholders(t *testing.T) {
	d := testDirectory()
	for _, cell := range []string{"", "   ", "N/A", "-", "--", "0", "XX", "100%", "NINGUNO", "NO APLICA", "Instructor Genérico", "INSTRUCTOR"} {
		assert.Equal(t, genericID, d.Resolve(cell), "cell %q", cell)
	}
}

func TestResolveInstructorUnknownName(t *testing.T) {
	d := testDirectory()
	assert.Equal(t, genericID, d.Resolve("Helena Quintero Baquero"))
}
