package schedule

import (
	"fmt"
	"strings"

	"room-occupancy-backend/internal/model"
)

type roomDay struct {
	room    string
	weekday model.Weekday
}

// DetectConflicts reports every (room, weekday, shift) combination shared by
// more than one occupation. Clock times and date ranges are not compared:
// the shift is the unit of allocation. Occupations with an unknown shift or
// weekday never take part in a conflict.
//
// Conflicts are ordered by the first appearance of their (room, weekday) in
// occs, then by shift order.
func DetectConflicts(occs []model.Occupation) []model.Conflict {
	var order []roomDay
	groups := make(map[roomDay][]model.Occupation)
	for _, o := range occs {
		if !o.Weekday.Valid() {
			continue
		}
		key := roomDay{room: o.Room, weekday: o.Weekday}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], o)
	}

	conflicts := make([]model.Conflict, 0)
	for _, key := range order {
		group := groups[key]
		for _, shift := range model.Shifts {
			var inShift []model.Occupation
			for _, o := range group {
				if o.Shift == shift {
					inShift = append(inShift, o)
				}
			}
			if len(inShift) > 1 {
				conflicts = append(conflicts, model.Conflict{
					Room:                key.room,
					Weekday:             key.weekday,
					Shift:               shift,
					OccupationsInvolved: inShift,
					Reason:              ConflictReason(shift),
				})
			}
		}
	}
	return conflicts
}

// ConflictReason is the human readable explanation of a shift conflict.
func ConflictReason(shift model.Shift) string {
	return fmt.Sprintf("Múltiplos cursos no turno da %s", strings.ToLower(string(shift)))
}
