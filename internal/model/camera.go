package model

import "time"

// Camera holds per-device recognition settings. Camera management itself is
// owned by an external admin surface; this table is read for thresholds only.
type Camera struct {
	ID                   string `gorm:"primaryKey;size:32"`
	Name                 string `gorm:"size:128"`
	GateID               string `gorm:"size:32;index"`
	AutoApproveThreshold float64
	Active               bool `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
