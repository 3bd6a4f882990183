package dashboard

import (
	"fmt"
	"strings"
	"time"

	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/parse"
	"room-occupancy-backend/internal/schedule"
)

// OccupationInput is the payload of a new occupation. The id and the unit
// are assigned by the service.
type OccupationInput struct {
	Room       string        `json:"room"`
	Course     string        `json:"course"`
	ClassGroup string        `json:"class_group"`
	Instructor string        `json:"instructor"`
	Shift      model.Shift   `json:"shift"`
	Weekday    model.Weekday `json:"weekday"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
}

const clockLayout = "15:04"

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOccupation, fmt.Sprintf(format, args...))
}

func (in OccupationInput) occupation() (model.Occupation, error) {
	o := model.Occupation{
		Room:       strings.TrimSpace(in.Room),
		Course:     strings.TrimSpace(in.Course),
		ClassGroup: strings.TrimSpace(in.ClassGroup),
		Instructor: strings.TrimSpace(in.Instructor),
		Shift:      in.Shift,
		Weekday:    in.Weekday,
		StartTime:  strings.TrimSpace(in.StartTime),
		EndTime:    strings.TrimSpace(in.EndTime),
		StartDate:  strings.TrimSpace(in.StartDate),
		EndDate:    strings.TrimSpace(in.EndDate),
	}

	if !parse.InCatalog(o.Room) {
		return o, invalid("unknown room %q", o.Room)
	}
	if o.Course == "" || o.ClassGroup == "" || o.Instructor == "" {
		return o, invalid("course, class group and instructor are required")
	}
	if !o.Shift.Valid() {
		return o, invalid("unknown shift %q", o.Shift)
	}
	if !o.Weekday.Valid() {
		return o, invalid("unknown weekday %q", o.Weekday)
	}

	from, err := time.Parse(clockLayout, o.StartTime)
	if err != nil {
		return o, invalid("start time %q is not HH:MM", o.StartTime)
	}
	to, err := time.Parse(clockLayout, o.EndTime)
	if err != nil {
		return o, invalid("end time %q is not HH:MM", o.EndTime)
	}
	if !to.After(from) {
		return o, invalid("end time must be after start time")
	}

	start, err := schedule.ParseDate(o.StartDate)
	if err != nil {
		return o, invalid("start date %q is not YYYY-MM-DD", o.StartDate)
	}
	end, err := schedule.ParseDate(o.EndDate)
	if err != nil {
		return o, invalid("end date %q is not YYYY-MM-DD", o.EndDate)
	}
	if end.Before(start) {
		return o, invalid("end date must not be before start date")
	}
	return o, nil
}
