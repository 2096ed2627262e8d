package model

import "time"

// RequestStatus is the approval status of an exception request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestExpired  RequestStatus = "expired"
)

// RequestType says which crossing directions a request covers.
type RequestType string

const (
	RequestEntry RequestType = "entry"
	RequestExit  RequestType = "exit"
	RequestBoth  RequestType = "both"
)

// ExceptionRequest is a pre-approved permit for a specific out-of-shift
// crossing. A request is consumed by at most one access record; consumption is
// a conditional update on ConsumedByRecordID being null.
type ExceptionRequest struct {
	ID            int64       `gorm:"primaryKey"`
	RequesterID   int64       `gorm:"index"`
	RequesterName string      `gorm:"size:128;not null"`
	Plate         string      `gorm:"index;size:16;not null"`
	Type          RequestType `gorm:"size:8;not null"`
	PlannedEntry  *time.Time
	PlannedExit   *time.Time
	Reason        string        `gorm:"size:256"`
	Status        RequestStatus `gorm:"size:16;not null;index"`
	ApprovedBy    string        `gorm:"size:64"`
	ApprovedAt    *time.Time
	ValidUntil    *time.Time

	ConsumedByRecordID *string `gorm:"size:36;index"`
	ConsumedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
