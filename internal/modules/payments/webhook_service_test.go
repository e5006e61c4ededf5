package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/orders"
)

func seedOrder(t *testing.T, db *gorm.DB, id, status, paymentStatus string) {
	t.Helper()
	now := time.Now()
	o := orders.Order{
		ID:                id,
		RestaurantID:      "rest-1",
		CustomerFirstName: "Asha",
		CustomerPhone:     "+919876543210",
		TotalAmount:       500,
		Currency:          "INR",
		PaymentMethod:     orders.MethodOnline,
		Status:            status,
		PaymentStatus:     paymentStatus,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, db.Create(&o).Error)
}

func capturedBody(orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_x1",
			"order_id": "order_x1",
			"amount": 50000,
			"currency": "INR",
			"method": "upi",
			"status": "captured",
			"notes": {"orderId": %q}
		}}}
	}`, orderID))
}

func failedBody(orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {
			"id": "pay_x2",
			"order_id": "order_x1",
			"amount": 50000,
			"currency": "INR",
			"status": "failed",
			"error_code": "BAD_REQUEST_ERROR",
			"error_description": "Payment declined",
			"notes": {"orderId": %q}
		}}}
	}`, orderID))
}

func TestWebhookCapturedConfirmsOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-20", orders.StatusPending, orders.PaymentPending)

	err := svc.Handle(context.Background(), "razorpay", "evt_1", capturedBody("local-20"))
	require.NoError(t, err)

	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", "local-20").Error)
	assert.Equal(t, orders.StatusConfirmed, o.Status)
	assert.Equal(t, orders.PaymentCompleted, o.PaymentStatus)

	var ev ProviderEvent
	require.NoError(t, db.First(&ev, "provider = ? AND event_id = ?", "razorpay", "evt_1").Error)
	assert.Equal(t, EventPaymentCaptured, ev.EventType)
	assert.NotNil(t, ev.ProcessedAt)
	assert.Nil(t, ev.ProcessError)

	var logs []orders.TransactionLog
	require.NoError(t, db.Where("order_id = ?", "local-20").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "payment_captured", logs[0].Type)
	assert.Equal(t, float64(500), logs[0].Amount)
}

func TestWebhookRedeliveryIsDeduplicated(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-21", orders.StatusPending, orders.PaymentPending)

	body := capturedBody("local-21")
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "evt_2", body))
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "evt_2", body))

	var evCount int64
	require.NoError(t, db.Model(&ProviderEvent{}).Count(&evCount).Error)
	assert.Equal(t, int64(1), evCount)

	// the duplicate must not have applied a second time
	var logCount int64
	require.NoError(t, db.Model(&orders.TransactionLog{}).Where("order_id = ?", "local-21").Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestWebhookReplayUnderFreshEventIDIsSafe(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-22", orders.StatusPending, orders.PaymentPending)

	body := capturedBody("local-22")
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "evt_3a", body))
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "evt_3b", body))

	// absolute writes: the order lands in the same final state
	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", "local-22").Error)
	assert.Equal(t, orders.StatusConfirmed, o.Status)
	assert.Equal(t, orders.PaymentCompleted, o.PaymentStatus)

	var evCount int64
	require.NoError(t, db.Model(&ProviderEvent{}).Count(&evCount).Error)
	assert.Equal(t, int64(2), evCount)
}

func TestWebhookFailedDoesNotRegressCompletedOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-23", orders.StatusConfirmed, orders.PaymentCompleted)

	err := svc.Handle(context.Background(), "razorpay", "evt_4", failedBody("local-23"))
	require.NoError(t, err)

	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", "local-23").Error)
	assert.Equal(t, orders.StatusConfirmed, o.Status)
	assert.Equal(t, orders.PaymentCompleted, o.PaymentStatus)

	var logCount int64
	require.NoError(t, db.Model(&orders.TransactionLog{}).Where("order_id = ?", "local-23").Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestWebhookFailedMarksPendingOrder(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-24", orders.StatusPending, orders.PaymentPending)

	err := svc.Handle(context.Background(), "razorpay", "evt_5", failedBody("local-24"))
	require.NoError(t, err)

	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", "local-24").Error)
	assert.Equal(t, orders.StatusPaymentFailed, o.Status)
	assert.Equal(t, orders.PaymentFailed, o.PaymentStatus)

	var entry orders.TransactionLog
	require.NoError(t, db.First(&entry, "order_id = ?", "local-24").Error)
	assert.Equal(t, "payment_failed", entry.Type)
	require.NotNil(t, entry.Note)
	assert.Equal(t, "BAD_REQUEST_ERROR: Payment declined", *entry.Note)
}

func TestWebhookUnknownOrderIsSwallowed(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)

	err := svc.Handle(context.Background(), "razorpay", "evt_6", capturedBody("no-such-order"))
	require.NoError(t, err)

	var ev ProviderEvent
	require.NoError(t, db.First(&ev, "event_id = ?", "evt_6").Error)
	assert.NotNil(t, ev.ProcessedAt)
}

func TestWebhookUnknownEventTypeIsStoredAndIgnored(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)

	body := []byte(`{"event":"refund.created","payload":{"payment":{"entity":{}}}}`)
	err := svc.Handle(context.Background(), "razorpay", "evt_7", body)
	require.NoError(t, err)

	var ev ProviderEvent
	require.NoError(t, db.First(&ev, "event_id = ?", "evt_7").Error)
	assert.Equal(t, "refund.created", ev.EventType)
	assert.NotNil(t, ev.ProcessedAt)
}

func TestWebhookUnparseableBodyIsSwallowed(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)

	err := svc.Handle(context.Background(), "razorpay", "evt_8", []byte("not json"))
	require.NoError(t, err)

	var evCount int64
	require.NoError(t, db.Model(&ProviderEvent{}).Count(&evCount).Error)
	assert.Zero(t, evCount)
}

func TestWebhookEmptyNotesArray(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)

	// the gateway serialises empty notes as [] rather than {}
	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_x3", "amount": 1000, "currency": "INR", "notes": []
		}}}
	}`)
	err := svc.Handle(context.Background(), "razorpay", "evt_9", body)
	require.NoError(t, err)

	var ev ProviderEvent
	require.NoError(t, db.First(&ev, "event_id = ?", "evt_9").Error)
	assert.NotNil(t, ev.ProcessedAt)
}

func TestWebhookMissingEventIDStillProcesses(t *testing.T) {
	db := openTestDB(t)
	svc := NewWebhookService(db, nil)
	seedOrder(t, db, "local-25", orders.StatusPending, orders.PaymentPending)

	body := capturedBody("local-25")
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "", body))

	var o orders.Order
	require.NoError(t, db.First(&o, "id = ?", "local-25").Error)
	assert.Equal(t, orders.PaymentCompleted, o.PaymentStatus)

	// without a provider event id there is nothing to dedupe on, so a
	// second delivery applies again (safely)
	require.NoError(t, svc.Handle(context.Background(), "razorpay", "", body))

	var evCount int64
	require.NoError(t, db.Model(&ProviderEvent{}).Count(&evCount).Error)
	assert.Equal(t, int64(2), evCount)
}
