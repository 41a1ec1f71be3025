package scheduling

// Overlaps reports whether two half-open [start,end) minute ranges intersect.
// The third clause catches full containment of b by a.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return (aStart >= bStart && aStart < bEnd) ||
		(aEnd > bStart && aEnd <= bEnd) ||
		(aStart <= bStart && aEnd >= bEnd)
}

// Slot is one proposed instructor/day/time-range entry, already parsed.
type Slot struct {
	InstructorID string
	Dia          string
	Desde        int
	Hasta        int
	Index        int
}

// Conflict identifies the pair of slots that collided.
type Conflict struct {
	InstructorID string
	Dia          string
	First        Slot
	Second       Slot
}

type slotGroupKey struct {
	instructorID string
	dia          string
}

// FindBatchConflict checks every slot pair within each (instructor, day)
// group and returns the first collision found, or nil. Non-overlap is not
// transitive, so every pair is compared; there is no early pruning beyond
// the grouping itself.
func FindBatchConflict(slots []Slot) *Conflict {
	groups := make(map[slotGroupKey][]Slot)
	for _, s := range slots {
		key := slotGroupKey{instructorID: s.InstructorID, dia: s.Dia}
		groups[key] = append(groups[key], s)
	}

	for key, group := range groups {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if Overlaps(group[i].Desde, group[i].Hasta, group[j].Desde, group[j].Hasta) {
					return &Conflict{
						InstructorID: key.instructorID,
						Dia:          key.dia,
						First:        group[i],
						Second:       group[j],
					}
				}
			}
		}
	}
	return nil
}
