package payments

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// OnlineProcessingFee is the flat surcharge applied to gateway payments,
// in major currency units. Cash and pay-later carry no fee.
const OnlineProcessingFee = 2.0

// Transaction is append-only: a row is written once payment is verified
// (or recorded for cash) and never mutated afterwards.
type Transaction struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	OrderID      string `gorm:"type:char(36);not null;index:ix_transactions_order"`
	RestaurantID string `gorm:"type:char(36);not null;index:ix_transactions_restaurant"`

	CustomerName  string  `gorm:"type:varchar(191);not null"`
	CustomerPhone string  `gorm:"type:varchar(32);not null"`
	CustomerEmail *string `gorm:"type:varchar(191)"`

	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	Currency      string  `gorm:"type:char(3);not null"`
	PaymentMethod string  `gorm:"type:varchar(16);not null"`
	PaymentStatus string  `gorm:"type:varchar(16);not null"`

	ProviderOrderID   *string `gorm:"type:varchar(128);index:ix_transactions_provider_order"`
	ProviderPaymentID *string `gorm:"type:varchar(128)"`
	ProviderSignature *string `gorm:"type:varchar(128)"`

	ProcessingFee float64 `gorm:"type:decimal(10,2);not null"`
	NetAmount     float64 `gorm:"type:decimal(10,2);not null"`
	Notes         *string `gorm:"type:varchar(512)"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Transaction) TableName() string { return "transactions" }

// ProviderEvent stores every received webhook event for audit and dedupe.
// unique(provider,event_id) makes exact redeliveries no-ops.
type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Provider    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventID     string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt   time.Time `gorm:"not null"`
	ProcessedAt  *time.Time
	ProcessError *string `gorm:"type:varchar(255)"`
}

func (ProviderEvent) TableName() string { return "provider_events" }

// FeeForMethod returns the flat processing fee for a payment method.
func FeeForMethod(method string) float64 {
	if method == "online" {
		return OnlineProcessingFee
	}
	return 0
}
