package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gate-access-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// FindActiveVehicleByPlate resolves a normalized plate against the
	// registry. A missing or inactive vehicle returns (nil, nil, nil):
	// "unregistered" is an outcome, not an error.
	FindActiveVehicleByPlate(ctx context.Context, plate string) (*model.Vehicle, *model.Owner, error)

	GetCamera(ctx context.Context, id string) (*model.Camera, error)

	CreateAccessRecord(ctx context.Context, rec *model.AccessRecord) error
	GetAccessRecord(ctx context.Context, id string) (*model.AccessRecord, error)
	UpdateAccessRecord(ctx context.Context, rec *model.AccessRecord) error
	ListAccessRecords(ctx context.Context, f RecordFilter) ([]model.AccessRecord, error)
	LatestEntry(ctx context.Context, plate string, before time.Time) (*model.AccessRecord, error)

	ListActiveShifts(ctx context.Context) ([]model.Shift, error)
	SetActiveShift(ctx context.Context, id int64) error

	ListRequests(ctx context.Context, f RequestFilter) ([]model.ExceptionRequest, error)
	ExpirePendingRequests(ctx context.Context, now time.Time) (int64, error)
	ConsumeRequest(ctx context.Context, requestID int64, recordID string) (bool, error)
}

// ErrNotFound is returned when a single-row lookup finds nothing.
var ErrNotFound = errors.New("not found")

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) FindActiveVehicleByPlate(ctx context.Context, plate string) (*model.Vehicle, *model.Owner, error) {
	var vehicle model.Vehicle
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("plate = ? AND active = ?", plate, true).
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup vehicle %q: %w", plate, err)
	}
	owner := vehicle.Owner
	return &vehicle, &owner, nil
}

func (s *gormStore) GetCamera(ctx context.Context, id string) (*model.Camera, error) {
	var cam model.Camera
	err := s.db.WithContext(ctx).First(&cam, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup camera %q: %w", id, err)
	}
	return &cam, nil
}

func (s *gormStore) CreateAccessRecord(ctx context.Context, rec *model.AccessRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create access record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *gormStore) GetAccessRecord(ctx context.Context, id string) (*model.AccessRecord, error) {
	var rec model.AccessRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("access record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get access record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *gormStore) UpdateAccessRecord(ctx context.Context, rec *model.AccessRecord) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("update access record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *gormStore) ListAccessRecords(ctx context.Context, f RecordFilter) ([]model.AccessRecord, error) {
	q := s.db.WithContext(ctx).Model(&model.AccessRecord{})
	if f.Plate != "" {
		q = q.Where("plate = ?", f.Plate)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.GateID != "" {
		q = q.Where("gate_id = ?", f.GateID)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if f.From != nil {
		q = q.Where("event_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("event_at <= ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var records []model.AccessRecord
	if err := q.Order("event_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list access records: %w", err)
	}
	return records, nil
}

func (s *gormStore) LatestEntry(ctx context.Context, plate string, before time.Time) (*model.AccessRecord, error) {
	var rec model.AccessRecord
	err := s.db.WithContext(ctx).
		Where("plate = ? AND action = ? AND event_at <= ?", plate, model.ActionEntry, before).
		Order("event_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest entry for %q: %w", plate, err)
	}
	return &rec, nil
}

func (s *gormStore) ListActiveShifts(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("position ASC, id ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, fmt.Errorf("list active shifts: %w", err)
	}
	return shifts, nil
}

// SetActiveShift activates one shift and deactivates every other in a single
// transaction, so readers never observe two shifts the legacy single-active
// model meant to be exclusive.
func (s *gormStore) SetActiveShift(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Shift{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return fmt.Errorf("deactivate shifts: %w", err)
		}
		res := tx.Model(&model.Shift{}).
			Where("id = ?", id).
			Update("active", true)
		if res.Error != nil {
			return fmt.Errorf("activate shift %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("activate shift %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *gormStore) ListRequests(ctx context.Context, f RequestFilter) ([]model.ExceptionRequest, error) {
	q := s.db.WithContext(ctx).Model(&model.ExceptionRequest{})
	if f.Plate != "" {
		q = q.Where("plate = ?", f.Plate)
	}
	if f.RequesterID != 0 {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Unconsumed {
		q = q.Where("consumed_by_record_id IS NULL")
	}
	if f.Action != "" {
		q = q.Where("type IN ?", []model.RequestType{model.RequestType(f.Action), model.RequestBoth})
		planned := "planned_entry"
		if f.Action == model.ActionExit {
			planned = "planned_exit"
		}
		if f.WindowFrom != nil {
			q = q.Where(planned+" >= ?", *f.WindowFrom)
		}
		if f.WindowTo != nil {
			q = q.Where(planned+" <= ?", *f.WindowTo)
		}
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var requests []model.ExceptionRequest
	if err := q.Order("id ASC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list exception requests: %w", err)
	}
	return requests, nil
}

// ExpirePendingRequests transitions stale pending requests to expired. A
// request is stale once its validity window (or, absent one, its latest
// planned time) has passed without the request being consumed.
func (s *gormStore) ExpirePendingRequests(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.ExceptionRequest{}).
		Where("status = ?", model.RequestPending).
		Where("consumed_by_record_id IS NULL").
		Where("COALESCE(valid_until, planned_exit, planned_entry) < ?", now).
		Update("status", model.RequestExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire pending requests: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ConsumeRequest atomically claims a request for an access record. The
// conditional update guarantees that concurrent claimants see exactly one
// success; losers get (false, nil) and proceed without an exception.
func (s *gormStore) ConsumeRequest(ctx context.Context, requestID int64, recordID string) (bool, error) {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.ExceptionRequest{}).
		Where("id = ? AND consumed_by_record_id IS NULL", requestID).
		Updates(map[string]interface{}{
			"consumed_by_record_id": recordID,
			"consumed_at":           now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("consume request %d: %w", requestID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
