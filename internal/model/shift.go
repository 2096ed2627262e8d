package model

import "time"

// Shift is a named, weekday-scoped working-hours window. StartTime and EndTime
// are "HH:mm" strings; an end before the start encodes an overnight shift that
// wraps past midnight. Weekdays is a comma-separated list of time.Weekday
// values (0 = Sunday).
type Shift struct {
	ID                    int64  `gorm:"primaryKey"`
	Name                  string `gorm:"uniqueIndex;size:128;not null"`
	StartTime             string `gorm:"size:5;not null"`
	EndTime               string `gorm:"size:5;not null"`
	Weekdays              string `gorm:"size:32;not null"`
	LateToleranceMinutes  int    `gorm:"not null"`
	EarlyToleranceMinutes int    `gorm:"not null"`
	Active                bool   `gorm:"index;not null"`
	Position              int    `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
