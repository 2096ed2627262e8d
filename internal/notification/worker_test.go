package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gate-access-backend/internal/model"
)

type sentPush struct {
	endpoint string
	payload  string
}

// mockSender records every push it is asked to send and answers with a
// configurable status per endpoint.
type mockSender struct {
	sent     []sentPush
	statuses map[string]int
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.sent = append(m.sent, sentPush{endpoint: sub.Endpoint, payload: string(payload)})
	status := http.StatusCreated
	if s, ok := m.statuses[sub.Endpoint]; ok {
		status = s
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AccessRecord{}, &model.PushSubscription{}))
	return db
}

func TestSendNotificationsForRecord(t *testing.T) {
	db := newTestDB(t)
	sender := &mockSender{}
	wp := NewWorkerPool(2, db, &webpush.Options{})
	wp.sender = sender

	subs := []model.PushSubscription{
		{Endpoint: "https://push.example/guard-1", P256DH: "p1", Auth: "a1"},
		{Endpoint: "https://push.example/guard-2", P256DH: "p2", Auth: "a2"},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}

	rec := model.AccessRecord{
		ID: "rec-1", Plate: "51B-999.88", Action: model.ActionEntry,
		GateName: "Cong chinh", State: model.StatePending,
		Confidence: 0.62, EventAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&rec).Error)

	wp.sendNotificationsForRecord(context.Background(), rec.ID)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "https://push.example/guard-1", sender.sent[0].endpoint)
	assert.Contains(t, sender.sent[0].payload, "Unregistered vehicle 51B-999.88")
	assert.Contains(t, sender.sent[0].payload, "Cong chinh")
}

func TestSendNotificationsRegisteredMessage(t *testing.T) {
	db := newTestDB(t)
	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/guard-1", P256DH: "p1", Auth: "a1"}).Error)
	rec := model.AccessRecord{
		ID: "rec-2", Plate: "29A-123.45", Action: model.ActionEntry,
		GateName: "Cong phu", State: model.StatePending,
		IsVehicleRegistered: true, Confidence: 0.71, EventAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&rec).Error)

	wp.sendNotificationsForRecord(context.Background(), rec.ID)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].payload, "Vehicle 29A-123.45")
	assert.Contains(t, sender.sent[0].payload, "confidence 0.71")
}

func TestExpiredSubscriptionIsDeleted(t *testing.T) {
	db := newTestDB(t)
	sender := &mockSender{statuses: map[string]int{"https://push.example/gone": http.StatusGone}}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/gone", P256DH: "p1", Auth: "a1"}).Error)
	require.NoError(t, db.Create(&model.PushSubscription{Endpoint: "https://push.example/alive", P256DH: "p2", Auth: "a2"}).Error)
	rec := model.AccessRecord{
		ID: "rec-3", Plate: "51B-999.88", Action: model.ActionEntry,
		State: model.StatePending, EventAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&rec).Error)

	wp.sendNotificationsForRecord(context.Background(), rec.ID)

	var remaining []model.PushSubscription
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "https://push.example/alive", remaining[0].Endpoint)
}

func TestNoSubscriptionsIsANoop(t *testing.T) {
	db := newTestDB(t)
	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.sendNotificationsForRecord(context.Background(), "missing")
	assert.Empty(t, sender.sent)
}

func TestDispatchQueuesJob(t *testing.T) {
	wp := NewWorkerPool(2, nil, &webpush.Options{})
	wp.Dispatch("rec-9")
	assert.Equal(t, "rec-9", <-wp.Jobs())
}
