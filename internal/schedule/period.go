package schedule

import (
	"errors"
	"fmt"
	"time"

	"room-occupancy-backend/internal/model"
)

// DateLayout is the calendar date format of occupation date ranges.
const DateLayout = "2006-01-02"

// MaxWeek is the last selectable week of a month.
const MaxWeek = 5

// ErrInvalidPeriod is returned when a month or week selector is out of range.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a month of a year narrowed to one 7-day bucket ("week of month").
// Week 1 covers days 1-7, week 2 days 8-14 and so on; week 5 starts on day 29
// and may run into the following month.
type Period struct {
	Year  int
	Month time.Month
	Week  int
}

// NewPeriod validates the selectors and returns the period.
func NewPeriod(year int, month time.Month, week int) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if week < 1 || week > MaxWeek {
		return Period{}, fmt.Errorf("%w: week %d", ErrInvalidPeriod, week)
	}
	return Period{Year: year, Month: month, Week: week}, nil
}

// MonthWindow returns the first and last day of the period's month.
func (p Period) MonthWindow() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// WeekWindow returns the first and last day of the period's 7-day bucket.
// Days past the end of the month roll over into the next month.
func (p Period) WeekWindow() (time.Time, time.Time) {
	startDay := (p.Week-1)*7 + 1
	start := time.Date(p.Year, p.Month, startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(p.Year, p.Month, startDay+6, 0, 0, 0, 0, time.UTC)
	return start, end
}

// IsActive reports whether the occupation's date range overlaps both the
// month window and the week window. Occupations with an empty or malformed
// date are never active.
func (p Period) IsActive(o model.Occupation) bool {
	start, end, err := DateRange(o)
	if err != nil {
		return false
	}
	monthStart, monthEnd := p.MonthWindow()
	weekStart, weekEnd := p.WeekWindow()
	return Overlaps(start, end, monthStart, monthEnd) && Overlaps(start, end, weekStart, weekEnd)
}

// IsActive is the free-function form of Period.IsActive. month is 1-based.
func IsActive(o model.Occupation, month time.Month, year, week int) bool {
	return Period{Year: year, Month: month, Week: week}.IsActive(o)
}

// FilterActive returns the occupations active during p, preserving order.
// The input slice is not modified.
func FilterActive(occs []model.Occupation, p Period) []model.Occupation {
	out := make([]model.Occupation, 0, len(occs))
	for _, o := range occs {
		if p.IsActive(o) {
			out = append(out, o)
		}
	}
	return out
}

// Overlaps is the closed-interval overlap test: aStart <= bEnd && aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// ParseDate parses a "YYYY-MM-DD" calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateRange parses the occupation's start and end dates.
func DateRange(o model.Occupation) (time.Time, time.Time, error) {
	start, err := ParseDate(o.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %q: %w", o.StartDate, err)
	}
	end, err := ParseDate(o.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q: %w", o.EndDate, err)
	}
	return start, end, nil
}
