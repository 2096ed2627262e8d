package store

import (
	"time"

	"gate-access-backend/internal/model"
)

// RecordFilter narrows access record queries. Zero-valued fields are ignored;
// queries are always built from this struct, never from ad hoc maps.
type RecordFilter struct {
	Plate  string
	Action model.Action
	GateID string
	State  model.VerificationState
	From   *time.Time
	To     *time.Time
	Limit  int
}

// RequestFilter narrows exception request queries. When Action is set, the
// type filter admits requests for that direction or for both, and the window
// is applied to the planned time of that direction.
type RequestFilter struct {
	Plate       string
	RequesterID int64
	Status      model.RequestStatus
	Action      model.Action
	WindowFrom  *time.Time
	WindowTo    *time.Time
	Unconsumed  bool
	Limit       int
}
