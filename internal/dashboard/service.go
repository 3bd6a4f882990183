package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"room-occupancy-backend/internal/exchange"
	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/schedule"
	"room-occupancy-backend/internal/store"
)

var (
	// ErrInvalidOccupation is returned when a submitted occupation fails validation.
	ErrInvalidOccupation = errors.New("invalid occupation")
	// ErrNotFound is returned when no occupation carries the requested id.
	ErrNotFound = errors.New("occupation not found")
)

// AlertDispatcher receives the rooms that gained a conflict after a write.
type AlertDispatcher interface {
	Dispatch(room string)
}

// Service composes the occupation store with the scheduling rules used by
// every dashboard page.
type Service struct {
	store  store.Store
	unit   string
	logger *zap.Logger

	// mu serialises writes so that conflict growth is computed against the
	// collection the write actually replaced.
	mu     sync.Mutex
	hooks  []func()
	alerts AlertDispatcher
	newID  func() string
}

// NewService creates a Service serving the occupations of unit.
func NewService(st store.Store, unit string, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		unit:   unit,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// Unit returns the active unit tag.
func (s *Service) Unit() string {
	return s.unit
}

// OnChange registers fn to run after every successful write.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// SetAlertDispatcher wires the receiver of conflict alerts.
func (s *Service) SetAlertDispatcher(d AlertDispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = d
}

// All returns the whole collection, newest first.
func (s *Service) All(ctx context.Context) ([]model.Occupation, error) {
	return s.store.LoadAll(ctx)
}

// List returns the occupations whose course, instructor or room contains
// query (case insensitive). A positive limit truncates the result.
func (s *Service) List(ctx context.Context, query string, limit int) ([]model.Occupation, error) {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Occupation, 0, len(occs))
	for _, o := range occs {
		if needle == "" ||
			strings.Contains(strings.ToLower(o.Course), needle) ||
			strings.Contains(strings.ToLower(o.Instructor), needle) ||
			strings.Contains(strings.ToLower(o.Room), needle) {
			out = append(out, o)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns the first occupation carrying id.
func (s *Service) Get(ctx context.Context, id string) (model.Occupation, error) {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return model.Occupation{}, err
	}
	for _, o := range occs {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Occupation{}, ErrNotFound
}

// Create validates in, assigns it a fresh id and the active unit and stores
// it in front of the collection.
func (s *Service) Create(ctx context.Context, in OccupationInput) (model.Occupation, error) {
	o, err := in.occupation()
	if err != nil {
		return model.Occupation{}, err
	}
	o.ID = s.newID()
	o.Unit = s.unit

	if _, err := s.write(ctx, func(ctx context.Context) ([]model.Occupation, error) {
		return s.store.AppendOne(ctx, o)
	}); err != nil {
		return model.Occupation{}, err
	}
	s.logger.Info("occupation created", zap.String("id", o.ID), zap.String("room", o.Room))
	return o, nil
}

// Import replaces the collection with the records of a JSON backup. Nothing
// is written when the payload cannot be decoded.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]model.Occupation, error) {
	occs, err := exchange.DecodeJSON(r, s.unit)
	if err != nil {
		return nil, err
	}

	stored, err := s.write(ctx, func(ctx context.Context) ([]model.Occupation, error) {
		return s.store.ReplaceAll(ctx, occs)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("occupations imported", zap.Int("count", len(stored)))
	return stored, nil
}

// ExportJSON writes the collection as a JSON backup.
func (s *Service) ExportJSON(ctx context.Context, w io.Writer) error {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return exchange.EncodeJSON(w, occs)
}

// ExportXLSX writes the collection and its conflicts as a spreadsheet.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return exchange.WriteXLSX(w, occs, schedule.DetectConflicts(occs))
}

// ExportICS writes the collection as an iCalendar feed.
func (s *Service) ExportICS(ctx context.Context, w io.Writer) error {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return exchange.WriteICS(w, s.unit, occs)
}

// Conflicts detects conflicts over the whole collection, or only over the
// occupations active in p when p is not nil.
func (s *Service) Conflicts(ctx context.Context, p *schedule.Period) ([]model.Conflict, error) {
	occs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if p != nil {
		occs = schedule.FilterActive(occs, *p)
	}
	return schedule.DetectConflicts(occs), nil
}

// Occurrences lists the dates of occupation id inside [from, to].
func (s *Service) Occurrences(ctx context.Context, id string, from, to time.Time) ([]time.Time, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dates := schedule.Occurrences(o, from, to)
	if dates == nil {
		dates = []time.Time{}
	}
	return dates, nil
}

// write runs fn under the write lock, then fires the change hooks and alerts
// for every room whose conflicts grew.
func (s *Service) write(ctx context.Context, fn func(context.Context) ([]model.Occupation, error)) ([]model.Occupation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading occupations: %w", err)
	}
	after, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	for _, hook := range s.hooks {
		hook()
	}
	if s.alerts == nil {
		return after, nil
	}
	for _, room := range grownConflicts(before, after) {
		s.logger.Info("conflict detected", zap.String("room", room))
		s.alerts.Dispatch(room)
	}
	return after, nil
}

// grownConflicts returns the rooms, in first-appearance order, where some
// (weekday, shift) slot now holds more occupations than before.
func grownConflicts(before, after []model.Occupation) []string {
	type slot struct {
		room    string
		weekday model.Weekday
		shift   model.Shift
	}
	previous := make(map[slot]int)
	for _, c := range schedule.DetectConflicts(before) {
		previous[slot{c.Room, c.Weekday, c.Shift}] = len(c.OccupationsInvolved)
	}

	var rooms []string
	seen := make(map[string]bool)
	for _, c := range schedule.DetectConflicts(after) {
		if len(c.OccupationsInvolved) <= previous[slot{c.Room, c.Weekday, c.Shift}] || seen[c.Room] {
			continue
		}
		seen[c.Room] = true
		rooms = append(rooms, c.Room)
	}
	return rooms
}
