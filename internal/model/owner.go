package model

import "time"

// Owner represents the registered owner of one or more vehicles.
type Owner struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"size:128;not null"`
	Phone      string `gorm:"size:32"`
	Department string `gorm:"size:128"`
	Active     bool   `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Vehicles []Vehicle `gorm:"foreignKey:OwnerID"`
}
