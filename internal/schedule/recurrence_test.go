package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"room-occupancy-backend/internal/model"
)

func dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(DateLayout)
	}
	return out
}

func TestOccurrences(t *testing.T) {
	// 2024-03-04 is a Monday.
	o := occ("1", "Sala 101", model.Monday, model.ShiftMorning, "2024-03-01", "2024-03-25")
	from, _ := ParseDate("2024-03-01")
	to, _ := ParseDate("2024-03-31")

	assert.Equal(t,
		[]string{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"},
		dates(Occurrences(o, from, to)))
}

func TestOccurrences_ClippedToWindow(t *testing.T) {
	o := occ("1", "Sala 101", model.Saturday, model.ShiftMorning, "2024-03-01", "2024-06-30")
	from, _ := ParseDate("2024-03-08")
	to, _ := ParseDate("2024-03-16")

	assert.Equal(t, []string{"2024-03-09", "2024-03-16"}, dates(Occurrences(o, from, to)))
}

func TestOccurrences_Invalid(t *testing.T) {
	from, _ := ParseDate("2024-01-01")
	to, _ := ParseDate("2024-12-31")

	assert.Empty(t, Occurrences(occ("1", "Sala 101", model.Weekday("Domingo"), model.ShiftMorning, "2024-03-01", "2024-03-31"), from, to))
	assert.Empty(t, Occurrences(occ("2", "Sala 101", model.Monday, model.ShiftMorning, "", "2024-03-31"), from, to))
	assert.Empty(t, Occurrences(occ("3", "Sala 101", model.Monday, model.ShiftMorning, "2024-03-31", "2024-03-01"), from, to))
}

func TestFirstOccurrence(t *testing.T) {
	first, ok := FirstOccurrence(occ("1", "Sala 101", model.Wednesday, model.ShiftMorning, "2024-03-01", "2024-03-31"))
	assert.True(t, ok)
	assert.Equal(t, "2024-03-06", first.Format(DateLayout))

	_, ok = FirstOccurrence(occ("2", "Sala 101", model.Monday, model.ShiftMorning, "2024-03-05", "2024-03-10"))
	assert.False(t, ok, "no Monday inside the range")
}
