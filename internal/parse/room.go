package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var roomRe = regexp.MustCompile(`(?i)^sala\s*(\d{3})$`)

// Pavilion number ranges of the unit's room catalog.
var floorRanges = []struct {
	Floor       int
	First, Last int
}{
	{Floor: 1, First: 101, Last: 115},
	{Floor: 2, First: 201, Last: 215},
	{Floor: 3, First: 301, Last: 315},
}

// ParsedRoom holds the structured data parsed from a room name.
type ParsedRoom struct {
	Name   string
	Floor  int
	Number int
}

// ParseRoom extracts the floor and number from a room name such as "Sala 204".
// The first digit of the number is the floor.
func ParseRoom(raw string) (ParsedRoom, error) {
	s := strings.Join(strings.Fields(raw), " ")
	m := roomRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse room name: %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse room number: %q", raw)
	}
	return ParsedRoom{Name: RoomName(n), Floor: n / 100, Number: n}, nil
}

// RoomName formats a room number the way the catalog names rooms.
func RoomName(number int) string {
	return fmt.Sprintf("Sala %d", number)
}

// FloorLabel is the display label of a floor ("1º Pavimento").
func FloorLabel(floor int) string {
	return fmt.Sprintf("%dº Pavimento", floor)
}

// Rooms returns the full room catalog in floor order.
func Rooms() []string {
	var rooms []string
	for _, r := range floorRanges {
		for n := r.First; n <= r.Last; n++ {
			rooms = append(rooms, RoomName(n))
		}
	}
	return rooms
}

// InCatalog reports whether name is exactly one of the catalog rooms.
func InCatalog(name string) bool {
	p, err := ParseRoom(name)
	if err != nil || p.Name != name {
		return false
	}
	for _, r := range floorRanges {
		if p.Number >= r.First && p.Number <= r.Last {
			return true
		}
	}
	return false
}

// Floor is a group of catalog rooms sharing a floor.
type Floor struct {
	Floor int      `json:"floor"`
	Label string   `json:"label"`
	Rooms []string `json:"rooms"`
}

// Catalog returns the catalog rooms whose name contains search (case
// insensitive), grouped by floor. Floors are always returned, possibly empty.
func Catalog(search string) []Floor {
	needle := strings.ToLower(strings.TrimSpace(search))
	floors := make([]Floor, 0, len(floorRanges))
	for _, r := range floorRanges {
		f := Floor{Floor: r.Floor, Label: FloorLabel(r.Floor), Rooms: []string{}}
		for n := r.First; n <= r.Last; n++ {
			name := RoomName(n)
			if needle == "" || strings.Contains(strings.ToLower(name), needle) {
				f.Rooms = append(f.Rooms, name)
			}
		}
		floors = append(floors, f)
	}
	return floors
}
