package exchange

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/schedule"
)

// CalendarFileName is the download name of the iCalendar export.
const CalendarFileName = "ocupacoes_salas_senac.ics"

// Occupations are wall-clock schedules, so events use floating local times.
const icalFloating = "20060102T150405"

var icalDays = map[model.Weekday]string{
	model.Monday:    "MO",
	model.Tuesday:   "TU",
	model.Wednesday: "WE",
	model.Thursday:  "TH",
	model.Friday:    "FR",
	model.Saturday:  "SA",
}

// WriteICS renders one weekly recurring VEVENT per occupation. Occupations
// without a usable date range, weekday or time are left out.
func WriteICS(w io.Writer, unit string, occs []model.Occupation) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//room-occupancy-backend//" + unit + "//PT")
	cal.SetXWRCalName("Ocupação de salas - " + unit)

	stamp := time.Now().UTC()
	for i, o := range occs {
		start, end, rule, ok := eventTimes(o)
		if !ok {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s-%d@room-occupancy-backend", o.ID, i))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(fmt.Sprintf("%s (%s)", o.Course, o.ClassGroup))
		ev.SetLocation(o.Room)
		ev.SetDescription(fmt.Sprintf("Instrutor: %s\nTurno: %s\nUnidade: %s", o.Instructor, o.Shift, o.Unit))
		ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(icalFloating))
		ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(icalFloating))
		ev.AddRrule(rule)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

func eventTimes(o model.Occupation) (time.Time, time.Time, string, bool) {
	day, ok := icalDays[o.Weekday]
	if !ok {
		return time.Time{}, time.Time{}, "", false
	}
	first, ok := schedule.FirstOccurrence(o)
	if !ok {
		return time.Time{}, time.Time{}, "", false
	}
	_, last, err := schedule.DateRange(o)
	if err != nil {
		return time.Time{}, time.Time{}, "", false
	}
	from, err := clock(o.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, "", false
	}
	to, err := clock(o.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, "", false
	}

	until := last.Add(24*time.Hour - time.Second)
	rule := fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", day, until.Format(icalFloating))
	return first.Add(from), first.Add(to), rule, true
}

// clock parses an HH:MM time of day into an offset from midnight.
func clock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
