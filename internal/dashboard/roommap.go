package dashboard

import (
	"context"
	"sort"

	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/parse"
	"room-occupancy-backend/internal/schedule"
)

// RoomStatus is one room of the map for a given weekday.
type RoomStatus struct {
	Room        string             `json:"room"`
	Occupied    bool               `json:"occupied"`
	Conflict    bool               `json:"conflict"`
	Occupations []model.Occupation `json:"occupations"`
}

// FloorMap groups the room statuses of one floor.
type FloorMap struct {
	Floor int          `json:"floor"`
	Label string       `json:"label"`
	Rooms []RoomStatus `json:"rooms"`
}

// Stats are the headline numbers of the home page.
type Stats struct {
	TotalRooms    int `json:"total_rooms"`
	OccupiedRooms int `json:"occupied_rooms"`
	FreeRooms     int `json:"free_rooms"`
	Conflicts     int `json:"conflicts"`
}

// RoomMap builds the catalog map for weekday. When p is not nil only the
// occupations active in p are shown, and conflicts are computed over that
// same subset. Floors without a room matching search are left out.
func (s *Service) RoomMap(ctx context.Context, weekday model.Weekday, p *schedule.Period, search string) ([]FloorMap, error) {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if p != nil {
		occs = schedule.FilterActive(occs, *p)
	}

	conflicted := make(map[string]bool)
	for _, c := range schedule.DetectConflicts(occs) {
		if c.Weekday == weekday {
			conflicted[c.Room] = true
		}
	}

	byRoom := make(map[string][]model.Occupation)
	for _, o := range occs {
		if o.Weekday == weekday {
			byRoom[o.Room] = append(byRoom[o.Room], o)
		}
	}

	floors := make([]FloorMap, 0, 3)
	for _, f := range parse.Catalog(search) {
		if len(f.Rooms) == 0 {
			continue
		}
		fm := FloorMap{Floor: f.Floor, Label: f.Label, Rooms: make([]RoomStatus, 0, len(f.Rooms))}
		for _, room := range f.Rooms {
			list := byRoom[room]
			if list == nil {
				list = []model.Occupation{}
			}
			sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime < list[j].StartTime })
			fm.Rooms = append(fm.Rooms, RoomStatus{
				Room:        room,
				Occupied:    len(list) > 0,
				Conflict:    conflicted[room],
				Occupations: list,
			})
		}
		floors = append(floors, fm)
	}
	return floors, nil
}

// Stats counts catalog rooms, distinct occupied rooms and raw conflicts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	rooms := make(map[string]struct{})
	for _, o := range occs {
		rooms[o.Room] = struct{}{}
	}
	total := len(parse.Rooms())
	free := total - len(rooms)
	if free < 0 {
		free = 0
	}
	return Stats{
		TotalRooms:    total,
		OccupiedRooms: len(rooms),
		FreeRooms:     free,
		Conflicts:     len(schedule.DetectConflicts(occs)),
	}, nil
}
