// Package verify turns recognition events into verified access records and
// owns the record verification state machine.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"gate-access-backend/internal/exception"
	"gate-access-backend/internal/model"
	"gate-access-backend/internal/plate"
	"gate-access-backend/internal/store"
)

var (
	// ErrInvalidState rejects a transition not permitted from the record's
	// current state. Surfaced to callers, never retried.
	ErrInvalidState = errors.New("invalid verification state for this action")

	// ErrGuestInfoRequired rejects approval of an unregistered vehicle
	// without guest name and phone.
	ErrGuestInfoRequired = errors.New("guest name and phone are required to approve an unregistered vehicle")
)

// Notifier receives records that need manual review. Delivery is fire-and-
// forget; the engine never blocks on it.
type Notifier interface {
	Dispatch(recordID string)
}

// Event is a raw recognition event from a camera. Events are ephemeral; only
// the resulting access record is persisted.
type Event struct {
	Plate      string
	Action     model.Action
	GateID     string
	GateName   string
	CameraID   string
	Confidence float64
	ImageRef   string
	VideoRef   string
	Timestamp  time.Time
}

// GuestInfo accompanies manual approval of an unregistered vehicle.
type GuestInfo struct {
	Name    string
	Phone   string
	Purpose string
}

// Engine orchestrates plate normalization, vehicle resolution, auto-approval
// and exception matching for each event, and applies verification actions.
type Engine struct {
	store            store.Store
	exceptions       *exception.Matcher
	thresholds       *gocache.Cache
	defaultThreshold float64
	notifier         Notifier
}

// NewEngine creates an engine. thresholds caches per-camera auto-approve
// values; notifier may be nil when no fan-out is wired.
func NewEngine(s store.Store, exceptions *exception.Matcher, thresholds *gocache.Cache, defaultThreshold float64, notifier Notifier) *Engine {
	if defaultThreshold <= 0 {
		defaultThreshold = 0.9
	}
	return &Engine{
		store:            s,
		exceptions:       exceptions,
		thresholds:       thresholds,
		defaultThreshold: defaultThreshold,
		notifier:         notifier,
	}
}

// ProcessEvent resolves an event into a fully formed access record and
// persists it. The record is inserted in its final shape; no caller can
// observe a half-updated record.
func (e *Engine) ProcessEvent(ctx context.Context, ev Event) (*model.AccessRecord, error) {
	if ev.Action != model.ActionEntry && ev.Action != model.ActionExit {
		return nil, fmt.Errorf("unknown action %q", ev.Action)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	normalized := plate.Normalize(ev.Plate)
	vehicle, owner, err := e.store.FindActiveVehicleByPlate(ctx, normalized)
	if err != nil {
		return nil, err
	}

	rec := &model.AccessRecord{
		ID:         uuid.NewString(),
		Plate:      normalized,
		Action:     ev.Action,
		GateID:     ev.GateID,
		GateName:   ev.GateName,
		CameraID:   ev.CameraID,
		Confidence: ev.Confidence,
		ImageRef:   ev.ImageRef,
		VideoRef:   ev.VideoRef,
		State:      model.StatePending,
		EventAt:    ev.Timestamp,
	}
	if vehicle != nil {
		rec.VehicleID = &vehicle.ID
		rec.IsVehicleRegistered = true
	}
	if owner != nil {
		rec.OwnerID = &owner.ID
		rec.IsOwnerActive = owner.Active
	}

	threshold := e.thresholdFor(ctx, ev.CameraID)
	if ev.Confidence >= threshold && rec.IsVehicleRegistered && rec.IsOwnerActive {
		now := time.Now().UTC()
		rec.State = model.StateAutoApproved
		rec.VerifiedBy = "system"
		rec.VerifiedAt = &now
		rec.VerificationNote = fmt.Sprintf("auto-approved at confidence %.2f (threshold %.2f)", ev.Confidence, threshold)
	}

	if ev.Action == model.ActionExit {
		entry, err := e.store.LatestEntry(ctx, normalized, ev.Timestamp)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			rec.EntryRecordID = &entry.ID
			rec.DurationSeconds = int(ev.Timestamp.Sub(entry.EventAt).Seconds())
		}
	}

	// Consume a covering exception before the insert: the record ID is
	// already fixed, so the claim and the insert form one logical unit.
	if e.exceptions != nil {
		if _, err := e.exceptions.Apply(ctx, rec); err != nil {
			log.Printf("exception lookup for record %s failed: %v", rec.ID, err)
		}
	}

	if err := e.store.CreateAccessRecord(ctx, rec); err != nil {
		return nil, err
	}

	if rec.State == model.StatePending && e.notifier != nil {
		e.notifier.Dispatch(rec.ID)
	}
	return rec, nil
}

// Approve moves a pending record to approved. Approving an unregistered
// vehicle requires guest name and phone; guest info on a registered vehicle
// is ignored.
func (e *Engine) Approve(ctx context.Context, recordID, actor, note string, guest *GuestInfo) (*model.AccessRecord, error) {
	rec, err := e.store.GetAccessRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.State != model.StatePending {
		return nil, fmt.Errorf("approve record %s in state %s: %w", rec.ID, rec.State, ErrInvalidState)
	}
	if !rec.IsVehicleRegistered {
		if guest == nil || guest.Name == "" || guest.Phone == "" {
			return nil, fmt.Errorf("approve record %s: %w", rec.ID, ErrGuestInfoRequired)
		}
		rec.GuestName = guest.Name
		rec.GuestPhone = guest.Phone
		rec.GuestPurpose = guest.Purpose
	}

	now := time.Now().UTC()
	rec.State = model.StateApproved
	rec.VerifiedBy = actor
	rec.VerifiedAt = &now
	rec.VerificationNote = note
	if err := e.store.UpdateAccessRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Reject moves a pending record to rejected.
func (e *Engine) Reject(ctx context.Context, recordID, actor, note string) (*model.AccessRecord, error) {
	rec, err := e.store.GetAccessRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.State != model.StatePending {
		return nil, fmt.Errorf("reject record %s in state %s: %w", rec.ID, rec.State, ErrInvalidState)
	}

	now := time.Now().UTC()
	rec.State = model.StateRejected
	rec.VerifiedBy = actor
	rec.VerifiedAt = &now
	rec.VerificationNote = note
	if err := e.store.UpdateAccessRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Correct fixes a misrecognized plate. The new plate is re-resolved against
// the registry; guest info is cleared if the corrected plate turns out to be
// registered, and an approved record drops back to pending for re-review.
// Rejected records cannot be corrected.
func (e *Engine) Correct(ctx context.Context, recordID, newPlate, actor string) (*model.AccessRecord, error) {
	rec, err := e.store.GetAccessRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.State == model.StateRejected {
		return nil, fmt.Errorf("correct record %s in state %s: %w", rec.ID, rec.State, ErrInvalidState)
	}

	normalized := plate.Normalize(newPlate)
	vehicle, owner, err := e.store.FindActiveVehicleByPlate(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if rec.OriginalPlate == "" {
		rec.OriginalPlate = rec.Plate
	}
	now := time.Now().UTC()
	rec.Plate = normalized
	rec.CorrectedBy = actor
	rec.CorrectedAt = &now

	rec.VehicleID = nil
	rec.OwnerID = nil
	rec.IsVehicleRegistered = false
	rec.IsOwnerActive = false
	if vehicle != nil {
		rec.VehicleID = &vehicle.ID
		rec.IsVehicleRegistered = true
		rec.GuestName = ""
		rec.GuestPhone = ""
		rec.GuestPurpose = ""
	}
	if owner != nil {
		rec.OwnerID = &owner.ID
		rec.IsOwnerActive = owner.Active
	}

	if rec.State != model.StatePending {
		rec.State = model.StatePending
		rec.VerifiedBy = ""
		rec.VerifiedAt = nil
		rec.VerificationNote = ""
	}

	if err := e.store.UpdateAccessRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// thresholdFor resolves the auto-approve threshold for a camera, caching
// per-camera values.
func (e *Engine) thresholdFor(ctx context.Context, cameraID string) float64 {
	if cameraID == "" || e.thresholds == nil {
		return e.defaultThreshold
	}
	if v, ok := e.thresholds.Get(cameraID); ok {
		return v.(float64)
	}
	threshold := e.defaultThreshold
	cam, err := e.store.GetCamera(ctx, cameraID)
	if err != nil {
		log.Printf("camera %s threshold lookup failed: %v", cameraID, err)
	} else if cam != nil && cam.AutoApproveThreshold > 0 {
		threshold = cam.AutoApproveThreshold
	}
	e.thresholds.Set(cameraID, threshold, gocache.DefaultExpiration)
	return threshold
}
