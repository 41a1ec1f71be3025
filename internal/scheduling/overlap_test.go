package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(h, m int) int { return h*60 + m }

func TestOverlapsBasic(t *testing.T) {
	cases := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo int
		want                   bool
	}{
		{"partial overlap", minutes(8, 0), minutes(10, 0), minutes(9, 0), minutes(11, 0), true},
		{"containment", minutes(8, 0), minutes(12, 0), minutes(9, 0), minutes(10, 0), true},
		{"identical", minutes(8, 0), minutes(10, 0), minutes(8, 0), minutes(10, 0), true},
		{"back to back", minutes(8, 0), minutes(10, 0), minutes(10, 0), minutes(12, 0), false},
		{"disjoint", minutes(6, 0), minutes(8, 0), minutes(14, 0), minutes(16, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aFrom, tc.aTo, tc.bFrom, tc.bTo))
		})
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	pairs := [][4]int{
		{minutes(8, 0), minutes(10, 0), minutes(9, 0), minutes(11, 0)},
		{minutes(8, 0), minutes(10, 0), minutes(10, 0), minutes(12, 0)},
		{minutes(7, 30), minutes(9, 45), minutes(6, 0), minutes(8, 0)},
		{minutes(8, 0), minutes(12, 0), minutes(9, 0), minutes(10, 0)},
	}
	for _, p := range pairs {
		assert.Equal(t,
			Overlaps(p[0], p[1], p[2], p[3]),
			Overlaps(p[2], p[3], p[0], p[1]),
			"overlap must be symmetric for %v", p)
	}
}

// Non-overlap is not transitive: A-B disjoint and B-C disjoint says nothing
// about A and C. The batch checker must therefore compare every pair.
func TestBatchCheckerComparesAllPairs(t *testing.T) {
	a := Slot{InstructorID: "i1", Dia: "LUNES", Desde: minutes(8, 0), Hasta: minutes(10, 0), Index: 0}
	b := Slot{InstructorID: "i1", Dia: "LUNES", Desde: minutes(12, 0), Hasta: minutes(13, 0), Index: 1}
	c := Slot{InstructorID: "i1", Dia: "LUNES", Desde: minutes(9, 0), Hasta: minutes(9, 30), Index: 2}

	require.False(t, Overlaps(a.Desde, a.Hasta, b.Desde, b.Hasta))
	require.False(t, Overlaps(b.Desde, b.Hasta, c.Desde, c.Hasta))

	conflict := FindBatchConflict([]Slot{a, b, c})
	require.NotNil(t, conflict, "a and c overlap even though both are clear of b")
	assert.Equal(t, "i1", conflict.InstructorID)
	assert.Equal(t, "LUNES", conflict.Dia)
}

func TestFindBatchConflictGroupsByInstructorAndDay(t *testing.T) {
	slots := []Slot{
		{InstructorID: "i1", Dia: "LUNES", Desde: minutes(8, 0), Hasta: minutes(10, 0)},
		{InstructorID: "i2", Dia: "LUNES", Desde: minutes(9, 0), Hasta: minutes(11, 0)},
		{InstructorID: "i1", Dia: "MARTES", Desde: minutes(9, 0), Hasta: minutes(11, 0)},
	}
	assert.Nil(t, FindBatchConflict(slots), "different instructors or days never conflict")
}

func TestFindBatchConflictSameInstructorSameDay(t *testing.T) {
	slots := []Slot{
		{InstructorID: "i1", Dia: "LUNES", Desde: minutes(8, 0), Hasta: minutes(10, 0), Index: 0},
		{InstructorID: "i1", Dia: "LUNES", Desde: minutes(9, 0), Hasta: minutes(11, 0), Index: 1},
	}
	conflict := FindBatchConflict(slots)
	require.NotNil(t, conflict)
	assert.Equal(t, "i1", conflict.InstructorID)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, minutes(8, 30), m)

	m, err = ParseClock("14:00:00")
	require.NoError(t, err)
	assert.Equal(t, minutes(14, 0), m)

	for _, bad := range []string{"", "8", "25:00", "08:61", "aa:bb"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "06:00", FormatClock(minutes(6, 0)))
	assert.Equal(t, "13:05", FormatClock(minutes(13, 5)))
}
