package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/orders"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

// paymentEntity is the provider's payment object inside the event envelope.
type paymentEntity struct {
	ID               string   `json:"id"`
	OrderID          string   `json:"order_id"`
	Amount           int64    `json:"amount"` // minor units
	Currency         string   `json:"currency"`
	Method           string   `json:"method"`
	Status           string   `json:"status"`
	ErrorCode        string   `json:"error_code"`
	ErrorDescription string   `json:"error_description"`
	Notes            notesMap `json:"notes"`
}

// notesMap tolerates the provider serialising empty notes as [] instead
// of {}.
type notesMap map[string]string

func (n *notesMap) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*n = notesMap{}
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*n = m
	return nil
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type WebhookService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewWebhookService(db *gorm.DB, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{db: db, logger: logger}
}

// Handle processes a signature-verified webhook body. Unknown event kinds
// and events referencing unknown orders are swallowed so the provider
// stops redelivering; only persistence failures propagate (to get a 500
// and a retry). All order mutations write absolute field values, so
// redelivery under a fresh event id is still safe.
func (s *WebhookService) Handle(ctx context.Context, providerName, eventID string, rawBody []byte) error {
	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		s.logger.WarnContext(ctx, "webhook body unparseable", "provider", providerName, "err", err)
		return nil
	}

	if eventID == "" {
		// no provider event id header; skip dedupe
		eventID = "local_" + uuid.NewString()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    providerName,
			EventID:     eventID,
			EventType:   env.Event,
			PayloadJSON: datatypes.JSON(rawBody),
			ReceivedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&pe).Error; err != nil {
			if isDup(err) {
				s.logger.InfoContext(ctx, "webhook event deduplicated", "provider", providerName, "event_id", eventID, "type", env.Event)
				return nil
			}
			return err
		}

		var applyErr error
		switch env.Event {
		case EventPaymentCaptured:
			applyErr = s.applyCaptured(ctx, tx, env.Payload.Payment.Entity, rawBody)
		case EventPaymentFailed:
			applyErr = s.applyFailed(ctx, tx, env.Payload.Payment.Entity)
		case EventOrderPaid:
			// reserved, log only
			s.logger.InfoContext(ctx, "order.paid event received", "provider_order_id", env.Payload.Payment.Entity.OrderID)
		default:
			s.logger.InfoContext(ctx, "webhook event ignored", "type", env.Event, "event_id", eventID)
		}
		if applyErr != nil {
			msg := truncate(applyErr.Error(), 250)
			_ = tx.WithContext(ctx).Model(&ProviderEvent{}).
				Where("id = ?", pe.ID).
				Updates(map[string]any{"process_error": msg}).Error
			s.logger.ErrorContext(ctx, "webhook apply failed", "event_id", eventID, "type", env.Event, "err", applyErr)
			return applyErr
		}

		processed := now
		return tx.WithContext(ctx).Model(&ProviderEvent{}).
			Where("id = ?", pe.ID).
			Updates(map[string]any{"processed_at": &processed}).Error
	})
}

func (s *WebhookService) applyCaptured(ctx context.Context, tx *gorm.DB, p paymentEntity, rawBody []byte) error {
	orderID := p.Notes["orderId"]
	if orderID == "" {
		s.logger.WarnContext(ctx, "payment.captured without orderId note", "provider_payment_id", p.ID)
		return nil
	}

	var o orders.Order
	if err := tx.WithContext(ctx).First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WarnContext(ctx, "payment.captured for unknown order", "order_id", orderID, "provider_payment_id", p.ID)
			return nil
		}
		return err
	}

	now := time.Now()
	details, _ := json.Marshal(p)

	if err := tx.WithContext(ctx).Model(&orders.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"payment_status":  orders.PaymentCompleted,
			"status":          orders.StatusConfirmed,
			"payment_details": details,
			"updated_at":      now,
		}).Error; err != nil {
		return err
	}

	entry := orders.TransactionLog{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		Type:        "payment_captured",
		Amount:      float64(p.Amount) / 100,
		PayloadJSON: datatypes.JSON(rawBody),
		CreatedAt:   now,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}

func (s *WebhookService) applyFailed(ctx context.Context, tx *gorm.DB, p paymentEntity) error {
	orderID := p.Notes["orderId"]
	if orderID == "" {
		s.logger.WarnContext(ctx, "payment.failed without orderId note", "provider_payment_id", p.ID)
		return nil
	}

	var o orders.Order
	if err := tx.WithContext(ctx).First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WarnContext(ctx, "payment.failed for unknown order", "order_id", orderID)
			return nil
		}
		return err
	}

	now := time.Now()

	// A stale failure must not regress an order the capture path already
	// confirmed.
	res := tx.WithContext(ctx).Model(&orders.Order{}).
		Where("id = ? AND payment_status <> ?", o.ID, orders.PaymentCompleted).
		Updates(map[string]any{
			"payment_status": orders.PaymentFailed,
			"status":         orders.StatusPaymentFailed,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	note := p.ErrorCode
	if p.ErrorDescription != "" {
		note = p.ErrorCode + ": " + p.ErrorDescription
	}
	var notePtr *string
	if note != "" {
		n := truncate(note, 250)
		notePtr = &n
	}

	entry := orders.TransactionLog{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Type:      "payment_failed",
		Amount:    float64(p.Amount) / 100,
		Note:      notePtr,
		CreatedAt: now,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}

func isDup(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
