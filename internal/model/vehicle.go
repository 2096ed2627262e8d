package model

import "time"

// Vehicle represents a registered vehicle in the facility registry.
type Vehicle struct {
	ID        int64  `gorm:"primaryKey"`
	Plate     string `gorm:"uniqueIndex;size:16;not null"`
	OwnerID   int64  `gorm:"index;not null"`
	Type      string `gorm:"size:32"`
	Brand     string `gorm:"size:64"`
	Color     string `gorm:"size:32"`
	Active    bool   `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Owner Owner `gorm:"constraint:OnDelete:CASCADE"`
}
