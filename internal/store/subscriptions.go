package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"room-occupancy-backend/internal/model"
)

// SubscriptionStore persists browser push subscriptions and the rooms they watch.
type SubscriptionStore interface {
	PutSubscription(ctx context.Context, sub model.PushSubscription, rooms []string) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForRoom(ctx context.Context, room string) ([]model.PushSubscription, error)
}

type gormSubscriptionStore struct {
	db *gorm.DB
}

// NewSubscriptionStore creates a GORM-backed SubscriptionStore.
func NewSubscriptionStore(db *gorm.DB) SubscriptionStore {
	return &gormSubscriptionStore{db: db}
}

// PutSubscription creates or replaces a subscription and its watched rooms.
func (s *gormSubscriptionStore) PutSubscription(ctx context.Context, sub model.PushSubscription, rooms []string) error {
	sub.Rooms = nil
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionRoom{}).Error; err != nil {
			return fmt.Errorf("failed to clear subscription rooms: %w", err)
		}

		seen := make(map[string]bool, len(rooms))
		watched := make([]model.SubscriptionRoom, 0, len(rooms))
		for _, room := range rooms {
			if seen[room] {
				continue
			}
			seen[room] = true
			watched = append(watched, model.SubscriptionRoom{Endpoint: sub.Endpoint, Room: room})
		}
		if len(watched) == 0 {
			return nil
		}
		if err := tx.Create(&watched).Error; err != nil {
			return fmt.Errorf("failed to store subscription rooms: %w", err)
		}
		return nil
	})
}

// GetSubscription loads a subscription with its rooms.
func (s *gormSubscriptionStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Rooms").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, ErrNotFound
	}
	return sub, err
}

// DeleteSubscription removes a subscription and its rooms.
func (s *gormSubscriptionStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionRoom{}).Error; err != nil {
			return err
		}
		return tx.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error
	})
}

// SubscriptionsForRoom lists the subscriptions watching room.
func (s *gormSubscriptionStore) SubscriptionsForRoom(ctx context.Context, room string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_rooms sr ON sr.endpoint = push_subscriptions.endpoint").
		Where("sr.room = ?", room).
		Find(&subs).Error
	return subs, err
}
