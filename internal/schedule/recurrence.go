package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"room-occupancy-backend/internal/model"
)

var errNoRecurrence = errors.New("occupation has no recurrence")

var rruleWeekdays = map[model.Weekday]rrule.Weekday{
	model.Monday:    rrule.MO,
	model.Tuesday:   rrule.TU,
	model.Wednesday: rrule.WE,
	model.Thursday:  rrule.TH,
	model.Friday:    rrule.FR,
	model.Saturday:  rrule.SA,
}

// Recurrence builds the weekly rule of an occupation: every occupation
// weekday from start_date to end_date inclusive.
func Recurrence(o model.Occupation) (*rrule.RRule, error) {
	wd, ok := rruleWeekdays[o.Weekday]
	if !ok {
		return nil, fmt.Errorf("%w: unknown weekday %q", errNoRecurrence, o.Weekday)
	}
	start, end, err := DateRange(o)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoRecurrence, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", errNoRecurrence)
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{wd},
		Dtstart:   start,
		Until:     end,
	})
}

// Occurrences lists the dates on which the occupation takes place within
// [from, to], both inclusive. Occupations whose dates or weekday cannot be
// interpreted have no occurrences.
func Occurrences(o model.Occupation, from, to time.Time) []time.Time {
	r, err := Recurrence(o)
	if err != nil {
		return nil
	}
	return r.Between(from, to, true)
}

// FirstOccurrence returns the first date the occupation takes place.
func FirstOccurrence(o model.Occupation) (time.Time, bool) {
	r, err := Recurrence(o)
	if err != nil {
		return time.Time{}, false
	}
	first := r.After(r.OrigOptions.Dtstart, true)
	return first, !first.IsZero()
}
