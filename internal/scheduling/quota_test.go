package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuarterHours(t *testing.T) {
	// 2h/day over 12 weeks
	assert.Equal(t, 24.0, QuarterHours(minutes(8, 0), minutes(10, 0), 12))
	// 90 minutes over 12 weeks
	assert.Equal(t, 18.0, QuarterHours(minutes(8, 0), minutes(9, 30), 12))
	// 50 minutes over 12 weeks, rounded to 2 decimals
	assert.Equal(t, 10.0, QuarterHours(minutes(8, 0), minutes(8, 50), 12))
	assert.Equal(t, 3.4, QuarterHours(minutes(8, 0), minutes(8, 17), 12))
}

func TestQuotaUsageRejectsOverage(t *testing.T) {
	// maxHours=40, workedHours=38, one 2h/week assignment = 24 quarter hours
	usage := &QuotaUsage{InstructorID: "i1", Nombre: "Laura Pineda", Current: 38, Max: 40}
	usage.Add(QuarterHours(minutes(8, 0), minutes(10, 0), 12))

	assert.Equal(t, 62.0, usage.NewTotal())
	assert.True(t, usage.Exceeded())
	assert.Equal(t, 22.0, usage.Overage())
}

func TestQuotaUsageAccumulatesBatchBeforeValidating(t *testing.T) {
	usage := &QuotaUsage{InstructorID: "i1", Current: 10, Max: 60}
	usage.Add(QuarterHours(minutes(8, 0), minutes(9, 0), 12))   // 12
	usage.Add(QuarterHours(minutes(10, 0), minutes(12, 0), 12)) // 24

	assert.Equal(t, 46.0, usage.NewTotal())
	assert.False(t, usage.Exceeded())
	assert.Zero(t, usage.Overage())
}
