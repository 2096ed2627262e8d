package model

import "time"

// VerificationState is the lifecycle status of an access record.
type VerificationState string

const (
	StatePending      VerificationState = "pending"
	StateAutoApproved VerificationState = "auto_approved"
	StateApproved     VerificationState = "approved"
	StateRejected     VerificationState = "rejected"
)

// Action is the direction of a gate crossing.
type Action string

const (
	ActionEntry Action = "entry"
	ActionExit  Action = "exit"
)

// AccessRecord is the persisted result of one physical gate crossing.
// Recognition events themselves are never stored; one record is created per
// crossing and mutated only by verification and correction actions.
type AccessRecord struct {
	ID         string  `gorm:"primaryKey;size:36"`
	Plate      string  `gorm:"index;size:16;not null"`
	VehicleID  *int64  `gorm:"index"`
	OwnerID    *int64
	Action     Action  `gorm:"size:8;not null;index"`
	GateID     string  `gorm:"size:32;index"`
	GateName   string  `gorm:"size:128"`
	CameraID   string  `gorm:"size:32"`
	Confidence float64 `gorm:"not null"`
	ImageRef   string  `gorm:"size:512"`
	VideoRef   string  `gorm:"size:512"`

	IsVehicleRegistered bool `gorm:"not null"`
	IsOwnerActive       bool `gorm:"not null"`

	State            VerificationState `gorm:"size:16;not null;index"`
	VerifiedBy       string            `gorm:"size:64"`
	VerifiedAt       *time.Time
	VerificationNote string `gorm:"size:256"`

	// Guest info is set only when an unregistered vehicle is manually approved.
	GuestName    string `gorm:"size:128"`
	GuestPhone   string `gorm:"size:32"`
	GuestPurpose string `gorm:"size:256"`

	// Correction trail, populated when a misrecognized plate is fixed.
	OriginalPlate string `gorm:"size:16"`
	CorrectedBy   string `gorm:"size:64"`
	CorrectedAt   *time.Time

	// Applied exception metadata, stamped when an approved exception request
	// covers this crossing.
	ExceptionRequestID *int64
	ExceptionRequester string `gorm:"size:128"`
	ExceptionReason    string `gorm:"size:256"`
	ExceptionApprover  string `gorm:"size:64"`

	// Exit records are paired against the most recent entry for the plate.
	EntryRecordID   *string `gorm:"size:36"`
	DurationSeconds int

	EventAt   time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Vehicle *Vehicle
	Owner   *Owner
}

// HasException reports whether an exception request was consumed for this record.
func (r *AccessRecord) HasException() bool {
	return r.ExceptionRequestID != nil
}
