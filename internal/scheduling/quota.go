package scheduling

import "math"

// Round2 rounds to two decimal places, the precision worked hours are stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuarterHours converts a daily time range into the hours it implies over a
// full quarter: (hasta-desde) in hours times the number of teaching weeks.
func QuarterHours(desde, hasta, weeksPerQuarter int) float64 {
	return Round2(float64(hasta-desde) / 60.0 * float64(weeksPerQuarter))
}

// QuotaUsage accumulates a batch's hours for one instructor. The batch is
// summed first and validated once against the ceiling, then written once.
type QuotaUsage struct {
	InstructorID string
	Nombre       string
	Current      float64
	Max          float64
	Batch        float64
}

// Add accumulates hours from one assignment in the batch.
func (u *QuotaUsage) Add(hours float64) {
	u.Batch += hours
}

// NewTotal is the worked-hours value persisted on acceptance.
func (u *QuotaUsage) NewTotal() float64 {
	return Round2(u.Current + u.Batch)
}

// Exceeded reports whether committing the batch would breach the ceiling.
func (u *QuotaUsage) Exceeded() bool {
	return u.NewTotal() > u.Max
}

// Overage is the amount by which the ceiling would be breached.
func (u *QuotaUsage) Overage() float64 {
	over := u.NewTotal() - u.Max
	if over < 0 {
		return 0
	}
	return Round2(over)
}
