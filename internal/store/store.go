package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"room-occupancy-backend/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence collaborator of the occupation collection.
// Every method returns the collection of the active unit as it stands after
// the operation, newest submissions first.
type Store interface {
	LoadAll(ctx context.Context) ([]model.Occupation, error)
	AppendOne(ctx context.Context, o model.Occupation) ([]model.Occupation, error)
	ReplaceAll(ctx context.Context, occs []model.Occupation) ([]model.Occupation, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db   *gorm.DB
	unit string
}

// NewGormStore creates a new GORM-backed store serving the given unit.
func NewGormStore(db *gorm.DB, unit string) Store {
	return &gormStore{db: db, unit: unit}
}

// LoadAll returns the occupations of the active unit ordered by position.
func (s *gormStore) LoadAll(ctx context.Context) ([]model.Occupation, error) {
	var occs []model.Occupation
	if err := s.db.WithContext(ctx).
		Where("unit = ?", s.unit).
		Order("position ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("failed to load occupations: %w", err)
	}
	return occs, nil
}

// AppendOne stores o in front of the existing collection.
func (s *gormStore) AppendOne(ctx context.Context, o model.Occupation) ([]model.Occupation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var minPos sql.NullInt64
		if err := tx.Model(&model.Occupation{}).Select("MIN(position)").Row().Scan(&minPos); err != nil {
			return fmt.Errorf("failed to read first position: %w", err)
		}

		o.RowID = 0
		o.Position = 0
		if minPos.Valid {
			o.Position = minPos.Int64 - 1
		}
		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create occupation %s: %w", o.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.LoadAll(ctx)
}

// ReplaceAll overwrites the whole collection with the records of the active
// unit found in occs, keeping their order. Records of other units are
// dropped. The overwrite is atomic: on failure the previous collection stays.
func (s *gormStore) ReplaceAll(ctx context.Context, occs []model.Occupation) ([]model.Occupation, error) {
	filtered := FilterUnit(occs, s.unit)
	for i := range filtered {
		filtered[i].RowID = 0
		filtered[i].Position = int64(i)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Occupation{}).Error; err != nil {
			return fmt.Errorf("failed to clear occupations: %w", err)
		}
		if len(filtered) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&filtered, 100).Error; err != nil {
			return fmt.Errorf("failed to insert %d occupations: %w", len(filtered), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.LoadAll(ctx)
}

// FilterUnit returns a copy of the occupations tagged with unit.
func FilterUnit(occs []model.Occupation, unit string) []model.Occupation {
	out := make([]model.Occupation, 0, len(occs))
	for _, o := range occs {
		if o.Unit == unit {
			out = append(out, o)
		}
	}
	return out
}
