package model

import "time"

// Shift is the period of the day a room is allocated for.
type Shift string

const (
	ShiftMorning   Shift = "Manhã"
	ShiftAfternoon Shift = "Tarde"
	ShiftEvening   Shift = "Noite"
)

// Shifts lists every known shift in day order.
var Shifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}

// Valid reports whether s is one of the known shifts.
func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}

// Weekday is a teaching day. Sunday is not scheduled.
type Weekday string

const (
	Monday    Weekday = "Segunda"
	Tuesday   Weekday = "Terça"
	Wednesday Weekday = "Quarta"
	Thursday  Weekday = "Quinta"
	Friday    Weekday = "Sexta"
	Saturday  Weekday = "Sábado"
)

// Weekdays lists every known weekday starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Valid reports whether d is one of the known weekdays.
func (d Weekday) Valid() bool {
	return d.TimeWeekday() != time.Sunday
}

// TimeWeekday maps d onto time.Weekday. Unknown values map to time.Sunday.
func (d Weekday) TimeWeekday() time.Weekday {
	switch d {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	}
	return time.Sunday
}

// Occupation is a scheduled use of a room by a class.
// Dates are "YYYY-MM-DD" and times "HH:MM", both kept as plain strings.
// Identifiers are not unique at the storage level; imported files may repeat them.
type Occupation struct {
	RowID      uint    `gorm:"primaryKey" json:"-"`
	ID         string  `gorm:"size:64;not null;index" json:"id"`
	Room       string  `gorm:"size:64;not null;index:idx_occupation_room_day" json:"room"`
	Course     string  `gorm:"size:256;not null" json:"course"`
	ClassGroup string  `gorm:"size:64;not null" json:"class_group"`
	Instructor string  `gorm:"size:128;not null" json:"instructor"`
	Shift      Shift   `gorm:"size:16;not null" json:"shift"`
	Weekday    Weekday `gorm:"size:16;not null;index:idx_occupation_room_day" json:"weekday"`
	StartTime  string  `gorm:"size:32" json:"start_time"`
	EndTime    string  `gorm:"size:32" json:"end_time"`
	StartDate  string  `gorm:"size:32" json:"start_date"`
	EndDate    string  `gorm:"size:32" json:"end_date"`
	Unit       string  `gorm:"size:128;not null;index" json:"unit"`

	// Position orders the collection; lower values are listed first.
	Position int64 `gorm:"not null;index" json:"-"`
}
