package model

// Conflict groups two or more occupations of the same room, weekday and shift.
type Conflict struct {
	Room                string       `json:"room"`
	Weekday             Weekday      `json:"weekday"`
	Shift               Shift        `json:"shift"`
	OccupationsInvolved []Occupation `json:"occupations_involved"`
	Reason              string       `json:"reason"`
}
