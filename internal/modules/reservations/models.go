package reservations

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// SlotDuration is how long a table is considered occupied by one
// reservation when checking for double bookings.
const SlotDuration = 2 * time.Hour

type Reservation struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	RestaurantID string `gorm:"type:char(36);not null;index:ix_reservations_restaurant"`

	CustomerName  string  `gorm:"type:varchar(191);not null"`
	CustomerPhone string  `gorm:"type:varchar(32);not null"`
	CustomerEmail *string `gorm:"type:varchar(191)"`

	PartySize   int       `gorm:"not null"`
	ReservedFor time.Time `gorm:"not null;index:ix_reservations_reserved_for"`
	Status      string    `gorm:"type:varchar(16);not null;index:ix_reservations_status"`
	TableID     *string   `gorm:"type:char(36);index:ix_reservations_table"`
	Notes       *string   `gorm:"type:varchar(512)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Reservation) TableName() string { return "reservations" }

type Table struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	RestaurantID string    `gorm:"type:char(36);not null;index:ix_tables_restaurant"`
	Name         string    `gorm:"type:varchar(64);not null"`
	Capacity     int       `gorm:"not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Table) TableName() string { return "restaurant_tables" }

// ReservationEvent records every admin action on a reservation.
type ReservationEvent struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	ReservationID string    `gorm:"type:char(36);not null;index:ix_reservation_events_reservation"`
	ActorAdminID  string    `gorm:"type:char(36);not null"`
	Action        string    `gorm:"type:varchar(32);not null"`
	FromStatus    string    `gorm:"type:varchar(16);not null"`
	ToStatus      string    `gorm:"type:varchar(16);not null"`
	Note          *string   `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (ReservationEvent) TableName() string { return "reservation_events" }
