package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Rooms []SubscriptionRoom `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionRoom is a room watched by a push subscription.
type SubscriptionRoom struct {
	Endpoint string `gorm:"primaryKey"`
	Room     string `gorm:"primaryKey;size:64;index"`
}
