// Package exception matches access records against pre-approved time-off
// exception requests.
package exception

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/store"
)

// Matcher finds and consumes the exception request covering an access record.
type Matcher struct {
	store  store.Store
	window time.Duration
}

// NewMatcher creates a matcher with a symmetric tolerance window around the
// record's timestamp.
func NewMatcher(s store.Store, window time.Duration) *Matcher {
	return &Matcher{store: s, window: window}
}

// Apply searches approved, unconsumed requests for the record's plate whose
// planned time for the record's direction falls within the window, consumes
// the closest one, and stamps its metadata onto the record. Only approved
// requests qualify; consuming a pending request would bypass the approval
// workflow. Losing the consumption race to another record is not an error:
// the next candidate is tried, and a record without a match keeps its
// computed verdict.
func (m *Matcher) Apply(ctx context.Context, rec *model.AccessRecord) (*model.ExceptionRequest, error) {
	if _, err := m.store.ExpirePendingRequests(ctx, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("expire stale requests: %w", err)
	}

	from := rec.EventAt.Add(-m.window)
	to := rec.EventAt.Add(m.window)
	candidates, err := m.store.ListRequests(ctx, store.RequestFilter{
		Plate:      rec.Plate,
		Status:     model.RequestApproved,
		Action:     rec.Action,
		WindowFrom: &from,
		WindowTo:   &to,
		Unconsumed: true,
	})
	if err != nil {
		return nil, fmt.Errorf("find candidate requests: %w", err)
	}

	sortByCloseness(candidates, rec)

	for i := range candidates {
		req := &candidates[i]
		ok, err := m.store.ConsumeRequest(ctx, req.ID, rec.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the race for this request; try the next candidate.
			continue
		}
		rec.ExceptionRequestID = &req.ID
		rec.ExceptionRequester = req.RequesterName
		rec.ExceptionReason = req.Reason
		rec.ExceptionApprover = req.ApprovedBy
		log.Printf("record %s consumed exception request %d (%s)", rec.ID, req.ID, req.RequesterName)
		return req, nil
	}
	return nil, nil
}

// sortByCloseness orders candidates by distance between their planned time for
// the record's direction and the record timestamp.
func sortByCloseness(reqs []model.ExceptionRequest, rec *model.AccessRecord) {
	dist := func(r *model.ExceptionRequest) time.Duration {
		planned := r.PlannedEntry
		if rec.Action == model.ActionExit {
			planned = r.PlannedExit
		}
		if planned == nil {
			return 1<<63 - 1
		}
		d := rec.EventAt.Sub(*planned)
		if d < 0 {
			d = -d
		}
		return d
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return dist(&reqs[i]) < dist(&reqs[j])
	})
}
