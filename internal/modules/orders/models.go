package orders

import (
	"time"

	"gorm.io/datatypes"
)

// Order status values. Online orders stay pending until payment confirms
// them; cash and pay-later orders confirm at submission.
const (
	StatusPending       = "pending"
	StatusConfirmed     = "confirmed"
	StatusPreparing     = "preparing"
	StatusReady         = "ready"
	StatusCompleted     = "completed"
	StatusPaymentFailed = "payment_failed"
	StatusCancelled     = "cancelled"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const (
	MethodOnline   = "online"
	MethodCash     = "cash"
	MethodPayLater = "pay-later"
)

type Order struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	RestaurantID string `gorm:"type:char(36);not null;index:ix_orders_restaurant"`

	// Customer snapshot (guest checkout, no user account required)
	CustomerFirstName string  `gorm:"type:varchar(128);not null"`
	CustomerLastName  string  `gorm:"type:varchar(128)"`
	CustomerPhone     string  `gorm:"type:varchar(32);not null;index:ix_orders_phone"`
	CustomerEmail     *string `gorm:"type:varchar(191)"`

	TotalAmount   float64 `gorm:"type:decimal(10,2);not null"`
	Currency      string  `gorm:"type:char(3);not null;default:'INR'"`
	PaymentMethod string  `gorm:"type:varchar(16);not null"`
	Status        string  `gorm:"type:varchar(32);not null;index:ix_orders_status"`
	PaymentStatus string  `gorm:"type:varchar(16);not null"`

	// Reservation-linked orders are exempt from the stale sweep.
	ReservationID *string `gorm:"type:char(36);index:ix_orders_reservation"`

	PaymentDetails datatypes.JSON `gorm:"type:json"`
	CancelReason   *string        `gorm:"type:varchar(255)"`
	CancelledAt    *time.Time

	CreatedAt time.Time `gorm:"not null;index:ix_orders_created_at"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         string  `gorm:"type:char(36);primaryKey"`
	OrderID    string  `gorm:"type:char(36);not null;index:ix_order_items_order"`
	MenuItemID string  `gorm:"type:char(36);not null"`
	Name       string  `gorm:"type:varchar(191);not null"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);not null"`
	Quantity   int     `gorm:"not null"`
	LineTotal  float64 `gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// TransactionLog is the append-only audit trail per order. Entries are
// written by checkout, webhook dispatch and the sweep; never updated.
type TransactionLog struct {
	ID      string  `gorm:"type:char(36);primaryKey"`
	OrderID string  `gorm:"type:char(36);not null;index:ix_txlog_order"`
	Type    string  `gorm:"type:varchar(48);not null"`
	Amount  float64 `gorm:"type:decimal(10,2);not null"`
	Note    *string `gorm:"type:varchar(255)"`

	PayloadJSON datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func (TransactionLog) TableName() string { return "order_transaction_logs" }
