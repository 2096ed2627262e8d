package model

import "time"

// PushSubscription holds a guard's browser push subscription. Records that
// need manual verification are broadcast to every subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
